package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sqsnav/internal/config"
	"github.com/five82/sqsnav/internal/msgfile"
	"github.com/five82/sqsnav/internal/prefs"
	"github.com/five82/sqsnav/internal/sqs"
	"github.com/five82/sqsnav/internal/state"
	"github.com/five82/sqsnav/internal/tree"
)

// Action messages. Modals emit the first group; remote commands report back
// with the second.
type (
	regionChosenMsg struct{ region string }
	queuePickedMsg  struct{ region, queueID string }
	removeQueueMsg  struct{ region, queueID string }
	attachPathMsg   struct{ region, queueID, path string }
	filterSetMsg    struct{ text string }
	sendBodyMsg     struct{ region, queueID, body, source string }
	profileSetMsg   struct{ profile string }
	endpointSetMsg  struct{ endpoint string }

	queuesListedMsg struct {
		region string
		res    sqs.Result[[]string]
	}
	sentMsg struct {
		key    state.QueueKey
		source string
		res    sqs.Result[sqs.SendResult]
	}
	attrsMsg struct {
		key state.QueueKey
		res sqs.Result[map[string]string]
	}
	whoamiMsg struct {
		res sqs.Result[sqs.Identity]
	}
)

// handleAction applies modal results and remote call results. The bool is
// false when msg is not an action message.
func (m Model) handleAction(msg tea.Msg) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case regionChosenMsg:
		region := strings.TrimSpace(msg.region)
		if region == "" {
			return m, nil, true
		}
		m.setStatus("Listing queues in " + region + "...")
		cmd := m.listQueuesCmd(region)
		return m, cmd, true

	case queuesListedMsg:
		m.done()
		if !msg.res.OK() {
			m.reportErr(msg.res.Err)
			return m, nil, true
		}
		if len(msg.res.Value) == 0 {
			m.setStatus("No queues in " + msg.region)
			return m, nil, true
		}
		m.status = statusLine{}
		region := msg.region
		m.modal = newPickerModal("Add queue in "+region, msg.res.Value, func(url string) tea.Msg {
			return queuePickedMsg{region: region, queueID: url}
		})
		return m, nil, true

	case queuePickedMsg:
		if _, err := m.sync.AddQueue(msg.region, msg.queueID); err != nil {
			m.reportErr(err)
			return m, nil, true
		}
		slog.Info("queue bookmarked", "region", msg.region, "queue", msg.queueID)
		m.setStatus("Added " + tree.QueueLabel(msg.queueID))
		if i := m.rowForQueue(msg.region, msg.queueID); i >= 0 {
			cmd := m.moveCursor(i)
			return m, cmd, true
		}
		cmd := m.attributesCmd(msg.region, msg.queueID)
		return m, cmd, true

	case removeQueueMsg:
		if err := m.sync.RemoveQueue(msg.region, msg.queueID); err != nil {
			m.reportErr(err)
			return m, nil, true
		}
		k := state.QueueKey{Region: msg.region, QueueID: msg.queueID}
		delete(m.attrs, k)
		delete(m.lastSend, k)
		slog.Info("queue removed", "region", msg.region, "queue", msg.queueID)
		m.setStatus("Removed " + tree.QueueLabel(msg.queueID))
		m.clampCursor()
		m.updateDetailViewport()
		return m, nil, true

	case attachPathMsg:
		path := strings.TrimSpace(msg.path)
		if path == "" {
			return m, nil, true
		}
		if abs, err := config.ExpandPath(path); err == nil {
			path = abs
		}
		t := m.sync.Tree()
		q, ok := t.FindQueue(msg.region, msg.queueID)
		if !ok {
			return m, nil, true
		}
		send, _ := t.SendGroup(q)
		if _, err := m.sync.AddMessageFile(send, path); err != nil {
			m.reportErr(err)
			return m, nil, true
		}
		qn, _ := t.Node(q)
		sn, _ := t.Node(send)
		m.expanded[nodeKey(qn)] = true
		m.expanded[nodeKey(sn)] = true
		m.setStatus("Attached " + tree.FileLabel(path))
		return m, nil, true

	case filterSetMsg:
		if err := m.sync.SetFilter(strings.TrimSpace(msg.text)); err != nil {
			m.reportErr(err)
			return m, nil, true
		}
		m.cursor = 0
		return m, nil, true

	case sendBodyMsg:
		m.setStatus("Sending to " + tree.QueueLabel(msg.queueID) + "...")
		cmd := m.sendCmd(msg.region, msg.queueID, msg.body, msg.source)
		return m, cmd, true

	case sentMsg:
		m.done()
		if !msg.res.OK() {
			m.reportErr(msg.res.Err)
			return m, nil, true
		}
		m.lastSend[msg.key] = msg.res.Value
		slog.Info("message sent", "queue", msg.key.QueueID, "source", msg.source, "message_id", msg.res.Value.MessageID)
		m.setStatus(fmt.Sprintf("Sent %s to %s: %s", msg.source, tree.QueueLabel(msg.key.QueueID), msg.res.Value.MessageID))
		m.updateDetailViewport()
		cmd := m.attributesCmd(msg.key.Region, msg.key.QueueID)
		return m, cmd, true

	case attrsMsg:
		m.done()
		m.attrs[msg.key] = msg.res
		if msg.res.OK() && m.stats != nil {
			m.stats.Put(msg.key, state.QueueStats{
				Attributes: msg.res.Value,
				Messages:   sqs.MessageCount(msg.res.Value),
			})
		}
		if !msg.res.OK() {
			m.reportErr(msg.res.Err)
		}
		m.updateDetailViewport()
		return m, nil, true

	case profileSetMsg:
		profile := strings.TrimSpace(msg.profile)
		if profile == "" || profile == m.prefs.AWSProfile {
			return m, nil, true
		}
		next, cmd := m.switchAccount(func(p *prefs.Prefs) { p.AWSProfile = profile })
		return next, cmd, true

	case endpointSetMsg:
		endpoint := strings.TrimSpace(msg.endpoint)
		if endpoint == m.prefs.AWSEndpoint {
			return m, nil, true
		}
		next, cmd := m.switchAccount(func(p *prefs.Prefs) { p.AWSEndpoint = endpoint })
		return next, cmd, true

	case whoamiMsg:
		m.done()
		if !msg.res.OK() {
			m.reportErr(msg.res.Err)
			return m, nil, true
		}
		id := msg.res.Value
		m.identity = &id
		m.setStatus(fmt.Sprintf("Connected as %s (account %s)", id.ARN, id.Account))
		return m, nil, true
	}
	return m, nil, false
}

// switchAccount persists a profile or endpoint change, points the gateway at
// it and re-checks credentials. Cached attributes and identity belong to the
// old account and are dropped.
func (m Model) switchAccount(apply func(*prefs.Prefs)) (Model, tea.Cmd) {
	if err := savePrefs(m.prefsPath, apply); err != nil {
		m.reportErr(fmt.Errorf("save prefs: %w", err))
		return m, nil
	}
	apply(&m.prefs)
	if rc, ok := m.gateway.(sqs.Reconfigurer); ok {
		rc.Reconfigure(sqs.Options{Profile: m.prefs.AWSProfile, Endpoint: m.prefs.AWSEndpoint})
	}
	m.identity = nil
	clear(m.attrs)
	slog.Info("aws account switched", "profile", m.prefs.AWSProfile, "endpoint", m.prefs.AWSEndpoint)
	m.updateDetailViewport()
	cmd := m.whoAmICmd()
	return m, cmd
}

func (m *Model) reportErr(err error) {
	slog.Error("action failed", "error", err)
	m.setError(err)
}

func (m *Model) done() {
	if m.pending > 0 {
		m.pending--
	}
}

func (m Model) rowForQueue(region, queueID string) int {
	for i, r := range m.rows() {
		if r.node.Role == tree.RoleQueue && r.node.Region == region && r.node.QueueID == queueID {
			return i
		}
	}
	return -1
}

// remote runs fn off the update loop with a bounded context.
func (m *Model) remote(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	if m.gateway == nil {
		return nil
	}
	m.pending++
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, RemoteTimeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m *Model) listQueuesCmd(region string) tea.Cmd {
	gw := m.gateway
	return m.remote(func(ctx context.Context) tea.Msg {
		return queuesListedMsg{region: region, res: sqs.Resolve(gw.ListQueues(ctx, region, ""))}
	})
}

func (m *Model) sendCmd(region, queueID, body, source string) tea.Cmd {
	gw := m.gateway
	k := state.QueueKey{Region: region, QueueID: queueID}
	return m.remote(func(ctx context.Context) tea.Msg {
		return sentMsg{key: k, source: source, res: sqs.Resolve(gw.Send(ctx, region, queueID, body))}
	})
}

func (m *Model) attributesCmd(region, queueID string) tea.Cmd {
	gw := m.gateway
	k := state.QueueKey{Region: region, QueueID: queueID}
	return m.remote(func(ctx context.Context) tea.Msg {
		return attrsMsg{key: k, res: sqs.Resolve(gw.Attributes(ctx, region, queueID))}
	})
}

func (m *Model) whoAmICmd() tea.Cmd {
	gw := m.gateway
	region := m.defaultRegion()
	m.setStatus("Checking credentials...")
	return m.remote(func(ctx context.Context) tea.Msg {
		return whoamiMsg{res: sqs.Resolve(gw.WhoAmI(ctx, region))}
	})
}

func (m Model) defaultRegion() string {
	if m.config != nil && m.config.DefaultRegion != "" {
		return m.config.DefaultRegion
	}
	return "us-east-1"
}

// Key-triggered actions

func (m Model) openAddQueue() (tea.Model, tea.Cmd) {
	hint := m.defaultRegion()
	if m.config != nil && len(m.config.Regions) > 1 {
		hint = strings.Join(m.config.Regions, ", ")
	}
	m.modal = newPromptModal("Add queue: region", hint, m.defaultRegion(), func(v string) tea.Msg {
		return regionChosenMsg{region: v}
	})
	return m, nil
}

func (m Model) openRemoveQueue() (tea.Model, tea.Cmd) {
	q, ok := m.selectedQueue()
	if !ok {
		return m, nil
	}
	prompt := fmt.Sprintf("Remove %s (%s)?", q.Label, q.Region)
	m.modal = newConfirmModal(prompt, removeQueueMsg{region: q.Region, queueID: q.QueueID})
	return m, nil
}

func (m Model) startSend() (tea.Model, tea.Cmd) {
	r, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	n := r.node
	switch n.Role {
	case tree.RoleFileSend:
		body, err := msgfile.Load(n.FilePath)
		if err != nil {
			m.reportErr(err)
			return m, nil
		}
		m.setStatus("Sending " + n.Label + "...")
		cmd := m.sendCmd(n.Region, n.QueueID, body.Text, n.Label)
		return m, cmd
	case tree.RoleSubscriptionGroup:
		return m, nil
	}
	region, queueID := n.Region, n.QueueID
	m.modal = newComposeModal("Send to "+tree.QueueLabel(queueID), "", func(body string) tea.Msg {
		source := "text"
		if msgfile.IsJSON(body) {
			source = "JSON"
		}
		return sendBodyMsg{region: region, queueID: queueID, body: body, source: source}
	})
	return m, nil
}

func (m Model) openAttachFile() (tea.Model, tea.Cmd) {
	q, ok := m.selectedQueue()
	if !ok {
		return m, nil
	}
	m.modal = newPromptModal("Attach message file to "+q.Label, "~/messages/order.json", "", func(v string) tea.Msg {
		return attachPathMsg{region: q.Region, queueID: q.QueueID, path: v}
	})
	return m, nil
}

func (m Model) detachFile() (tea.Model, tea.Cmd) {
	r, ok := m.selectedRow()
	if !ok || r.node.Role != tree.RoleFileSend {
		return m, nil
	}
	if err := m.sync.RemoveMessageFile(r.node.ID); err != nil {
		m.reportErr(err)
		return m, nil
	}
	m.setStatus("Detached " + r.node.Label)
	m.clampCursor()
	return m, nil
}

// toggleMark flips the favorite (fav=true) or hidden mark of the row.
// Rows that cannot carry marks mark their queue instead.
func (m Model) toggleMark(fav bool) (tea.Model, tea.Cmd) {
	r, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	n := r.node
	if !n.Markable() {
		q, ok := m.selectedQueue()
		if !ok {
			return m, nil
		}
		n = q
	}
	var err error
	if fav {
		err = m.sync.SetFavorite(n.ID, !n.Favorite)
	} else {
		err = m.sync.SetHidden(n.ID, !n.Hidden)
	}
	if err != nil {
		m.reportErr(err)
	}
	m.clampCursor()
	return m, nil
}

func (m Model) copyQueueURL() (tea.Model, tea.Cmd) {
	q, ok := m.selectedQueue()
	if !ok {
		return m, nil
	}
	if err := clipboard.WriteAll(q.QueueID); err != nil {
		m.reportErr(fmt.Errorf("copy to clipboard: %w", err))
		return m, nil
	}
	m.setStatus("Copied " + q.QueueID)
	return m, nil
}

func (m Model) openFilter() (tea.Model, tea.Cmd) {
	current := m.sync.Store().View().Filter
	m.modal = newPromptModal("Filter queues", "name, region or URL", current, func(v string) tea.Msg {
		return filterSetMsg{text: v}
	})
	return m, nil
}

func (m Model) openProfilePrompt() (tea.Model, tea.Cmd) {
	m.modal = newPromptModal("AWS profile", "profile name from ~/.aws/config", m.prefs.AWSProfile, func(v string) tea.Msg {
		return profileSetMsg{profile: v}
	})
	return m, nil
}

func (m Model) openEndpointPrompt() (tea.Model, tea.Cmd) {
	m.modal = newPromptModal("AWS endpoint", "blank uses the AWS default", m.prefs.AWSEndpoint, func(v string) tea.Msg {
		return endpointSetMsg{endpoint: v}
	})
	return m, nil
}
