// Package sqs wraps the AWS SDK for the handful of queue operations sqsnav
// performs: listing queues, sending messages, reading queue attributes and
// checking the caller identity. SDK clients are cached per region and share
// the selected credentials profile and optional endpoint override.
package sqs
