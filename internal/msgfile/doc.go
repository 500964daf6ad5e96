// Package msgfile reads message bodies from local files for sending.
package msgfile
