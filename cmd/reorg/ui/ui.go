package ui

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/reorgtool/reorg/pkg/fsops"
	"github.com/reorgtool/reorg/pkg/tree"
)

// 📢 UserLogger provides user-friendly feedback about move operations
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎨 MoveChangeType represents the kind of feedback for one move
type MoveChangeType int

const (
	MoveApplied MoveChangeType = iota
	MoveFallback
	MoveDry
	MoveSkipped
	MoveFailed
)

// 🖼️ MoveChange represents one move reported to the user
type MoveChange struct {
	Type        MoveChangeType
	From        string
	To          string
	Description string
	Error       error
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogMoveChange logs a move with appropriate prefix and formatting
func (u *UserLogger) LogMoveChange(change MoveChange) {
	var prefix, action string
	var printer *pterm.PrefixPrinter
	switch change.Type {
	case MoveApplied:
		prefix = "✨"
		action = "Moved"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: prefix})
	case MoveFallback:
		prefix = "🔄"
		action = "Moved (copy)"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: prefix})
	case MoveDry:
		prefix = "🔍"
		action = "Would move"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: prefix})
	case MoveSkipped:
		prefix = "⏭️"
		action = "Skipped"
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: prefix})
	case MoveFailed:
		prefix = "❌"
		action = "Failed"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: prefix})
	}

	msg := fmt.Sprintf("%s %s → %s", action, change.From, change.To)
	if change.Description != "" {
		msg += fmt.Sprintf(" (%s)", change.Description)
	}

	if change.Error != nil {
		printer.Println(msg)
		pterm.Error.Println(change.Error)
		u.log.Error().Err(change.Error).Msg(msg) // Also log to zerolog for debugging
	} else {
		printer.Println(msg)
		u.log.Info().Msg(msg) // Also log to zerolog for debugging
	}
}

// 📝 LogMoveResult reports a backend move result to the user
func (u *UserLogger) LogMoveResult(result fsops.MoveResult) {
	change := MoveChange{
		From:        result.FromPath,
		To:          result.ToPath,
		Description: result.Reason,
	}
	switch result.Status {
	case fsops.StatusMoved:
		change.Type = MoveApplied
	case fsops.StatusMovedFallback:
		change.Type = MoveFallback
	case fsops.StatusDryOK:
		change.Type = MoveDry
	case fsops.StatusSkip:
		change.Type = MoveSkipped
	default:
		change.Type = MoveFailed
	}
	u.LogMoveChange(change)
}

// 📊 LogStateChange logs a change to the overall state
func (u *UserLogger) LogStateChange(description string) {
	printer := pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"})
	printer.Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
	} else {
		if err != nil {
			pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
			pterm.Error.Println(err)
			u.log.Error().Err(err).Msg(description)
		} else {
			pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
			u.log.Warn().Msg(description)
		}
	}
}

// 🌳 RenderTree prints a tree snapshot as an indented tree
func (u *UserLogger) RenderTree(t *tree.TreeNode) error {
	root := toPtermNode(t)
	return pterm.DefaultTree.WithRoot(root).Render()
}

func toPtermNode(n *tree.TreeNode) pterm.TreeNode {
	text := n.Name
	if n.IsFolder() {
		text = pterm.Cyan(n.Name + "/")
	} else if n.Size != nil {
		text = fmt.Sprintf("%s %s", n.Name, pterm.Gray(fmt.Sprintf("(%d B)", *n.Size)))
	}

	node := pterm.TreeNode{Text: text}
	for _, child := range n.Children {
		node.Children = append(node.Children, toPtermNode(child))
	}
	return node
}
