package command

import (
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Constructor builds a command handler. It is called at most once per keyword.
type Constructor func() port.Command

type entry struct {
	description string
	construct   Constructor

	once     sync.Once
	instance port.Command
}

// Registry is a lazy factory: every keyword maps to exactly one handler instance for the lifetime of the
// registry, created on first use and reused afterwards.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*entry
}

func (r *Registry) Register(command, description string, construct Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.commands == nil {
		r.commands = make(map[string]*entry)
	}

	if _, ok := r.commands[command]; ok {
		log.Warn().Str("handler", command).Msg("command already registered, keeping existing handler")
		return
	}

	log.Info().Str("handler", command).Msg("adding command handler to registry")
	r.commands[command] = &entry{description: description, construct: construct}
}

func (r *Registry) Create(text string) (port.Command, error) {
	command := domain.ParseCommand(text)
	log.Debug().Str("command", command).Msg("fetching command handler from registry")

	r.mu.RLock()
	if r.commands == nil {
		r.mu.RUnlock()
		return nil, domain.ErrRegistryNotInitialized
	}
	e, ok := r.commands[command]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrCommandNotFound
	}

	e.once.Do(func() {
		log.Debug().Str("command", command).Msg("constructing command handler")
		e.instance = e.construct()
	})

	return e.instance, nil
}

func (r *Registry) ListCommands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

func (r *Registry) Describe(command string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.commands[command]
	if !ok {
		return ""
	}

	return e.description
}
