// Package telegram assembles the bot runtime: poller selection, HTTP
// client tuning, the command and callback registry and the run loop.
package telegram

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/telegram/commands"
)

// Registry holds command and callback handlers registered during
// startup. Registration is not expected after the bot starts.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]commands.Command
	aliases   map[string]string
	callbacks map[string]tele.HandlerFunc
	fallback  tele.HandlerFunc
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		aliases:   make(map[string]string),
		callbacks: make(map[string]tele.HandlerFunc),
	}
}

// RegisterCommand registers a command under its canonical name and any
// aliases. Names must start with a slash.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	name = normalizeCommandName(name)
	if !strings.HasPrefix(name, "/") {
		return fmt.Errorf("command %q must start with /", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %q already registered", name)
	}
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		alias = normalizeCommandName(alias)
		if _, exists := r.aliases[alias]; exists {
			return fmt.Errorf("alias %q already registered", alias)
		}
		r.aliases[alias] = name
	}
	return nil
}

// LookupCommand resolves a command by name or alias.
func (r *Registry) LookupCommand(name string) (commands.Command, bool) {
	name = normalizeCommandName(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	cmd, ok := r.commands[name]
	return cmd, ok
}

// ListCommands returns registered commands sorted by name, aliases
// excluded.
func (r *Registry) ListCommands() []NamedCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]NamedCommand, 0, len(r.commands))
	for name, cmd := range r.commands {
		out = append(out, NamedCommand{Name: name, Command: cmd})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NamedCommand pairs a command with its canonical name.
type NamedCommand struct {
	Name    string
	Command commands.Command
}

// RegisterCallback registers an inline callback handler under its
// unique key.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		return fmt.Errorf("callback %q already registered", key)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback resolves a callback handler by its unique key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// SetTextFallback sets the handler for free text not claimed by an
// active flow.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	r.fallback = h
	r.mu.Unlock()
}

// TextFallback returns the free-text fallback handler, which may be nil.
func (r *Registry) TextFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// InitBotCommands publishes visible, non-admin commands to the
// Telegram command menu.
func (r *Registry) InitBotCommands(bot *tele.Bot) error {
	var menu []tele.Command
	for _, nc := range r.ListCommands() {
		if nc.Command.Hidden || nc.Command.AdminOnly {
			continue
		}
		menu = append(menu, tele.Command{
			Text:        strings.TrimPrefix(nc.Name, "/"),
			Description: nc.Command.Description,
		})
	}
	if len(menu) == 0 {
		return nil
	}
	return bot.SetCommands(menu)
}

func normalizeCommandName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
