package command

import (
	"context"
	"errors"
	"fmt"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type subCommand func(ctx context.Context, message *domain.Message, args []string) (string, error)

type DevParams struct {
	AdminIDs    []int64
	Users       port.UserStore
	Broadcaster port.Broadcaster
	Host        port.HostInspector
	Command     string
}

// Dev bundles developer diagnostics. It keeps its own administrator list and checks it on every call,
// independently of the authorization gate.
type Dev struct {
	admins      map[int64]struct{}
	users       port.UserStore
	broadcaster port.Broadcaster
	host        port.HostInspector
	command     string
	subCommands map[string]subCommand
}

const defaultSubCommand = "get_ids"

func NewDev(p DevParams) *Dev {
	d := &Dev{
		admins:      make(map[int64]struct{}, len(p.AdminIDs)),
		users:       p.Users,
		broadcaster: p.Broadcaster,
		host:        p.Host,
		command:     p.Command,
	}

	for _, id := range p.AdminIDs {
		d.admins[id] = struct{}{}
	}

	d.subCommands = map[string]subCommand{
		"get_ids":   d.getIDs,
		"help":      d.help,
		"runtime":   d.runtime,
		"sys":       d.sys,
		"user":      d.user,
		"broadcast": d.broadcast,
	}

	return d
}

func (d *Dev) GetCommand() string {
	return d.command
}

const (
	devNoAccess      = "⛔ You do not have access to this command."
	devUnknown       = "❓ Unknown sub-command. Use `%s help` for the list."
	devFailed        = "❌ Sub-command `%s` failed: %v"
	devUserNotFound  = "User not found"
	devNotConfigured = "%s is not configured"
)

func (d *Dev) Execute(ctx context.Context, message *domain.Message) string {
	l := log.With().
		Int64("chatId", message.ChatID).
		Int64("userId", message.UserID).
		Str("command", d.GetCommand()).
		Logger()

	if _, ok := d.admins[message.UserID]; !ok {
		l.Warn().Msg("developer command denied")
		return devNoAccess
	}

	sub := defaultSubCommand
	var args []string
	if parts := strings.Fields(domain.ParseCommandArgs(message.Text)); len(parts) > 0 {
		sub = parts[0]
		args = parts[1:]
	}

	handler, ok := d.subCommands[sub]
	if !ok {
		return fmt.Sprintf(devUnknown, d.command)
	}

	l.Info().Str("sub", sub).Msg("handling request")

	return d.run(ctx, sub, handler, message, args)
}

func (d *Dev) run(ctx context.Context, sub string, handler subCommand, message *domain.Message,
	args []string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("sub", sub).Msg("developer sub-command panicked")
			reply = fmt.Sprintf(devFailed, sub, r)
		}
	}()

	reply, err := handler(ctx, message, args)
	if err != nil {
		log.Warn().Err(err).Str("sub", sub).Msg("developer sub-command failed")
		return fmt.Sprintf(devFailed, sub, err)
	}

	return reply
}

func (d *Dev) getIDs(_ context.Context, message *domain.Message, _ []string) (string, error) {
	return fmt.Sprintf("🆔 User ID: `%d`\nChat ID: `%d`", message.UserID, message.ChatID), nil
}

func (d *Dev) help(_ context.Context, _ *domain.Message, _ []string) (string, error) {
	names := make([]string, 0, len(d.subCommands))
	for name := range d.subCommands {
		names = append(names, name)
	}
	sort.Strings(names)

	sb := &strings.Builder{}
	sb.WriteString("🛠️ Developer sub-commands:\n")
	for _, name := range names {
		fmt.Fprintf(sb, "- `%s`\n", name)
	}

	return sb.String(), nil
}

const kb = 1024
const runtimeTemplate = `allocated mem: %d KB
goroutines running: %d
heap: %d KB
stack: %d KB
compiled with %s for %s-%s`

func (d *Dev) runtime(_ context.Context, _ *domain.Message, _ []string) (string, error) {
	data := []metrics.Sample{
		{Name: "/memory/classes/heap/objects:bytes"},
		{Name: "/memory/classes/heap/stacks:bytes"},
		{Name: "/memory/classes/total:bytes"},
	}
	metrics.Read(data)

	goos, goarch := runtime.GOOS, runtime.GOARCH
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "GOOS":
				goos = setting.Value
			case "GOARCH":
				goarch = setting.Value
			}
		}
	}

	return fmt.Sprintf(runtimeTemplate,
		sampleKB(data[2]),
		runtime.NumGoroutine(),
		sampleKB(data[0]),
		sampleKB(data[1]),
		runtime.Version(), goos, goarch,
	), nil
}

func sampleKB(s metrics.Sample) uint64 {
	if s.Value.Kind() != metrics.KindUint64 {
		return 0
	}

	return s.Value.Uint64() / kb
}

func (d *Dev) sys(ctx context.Context, _ *domain.Message, _ []string) (string, error) {
	if d.host == nil {
		return fmt.Sprintf(devNotConfigured, "host inspection"), nil
	}

	stats, err := d.host.Stats(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read host stats: %w", err)
	}

	return fmt.Sprintf("🖥 %s (%s %s, kernel %s)\nuptime: %s\ncpu: %s x%d, load %.2f\nmem: %d/%d MB (%.1f%%)",
		stats.Hostname, stats.Platform, stats.PlatformVersion, stats.KernelVersion,
		(time.Duration(stats.Uptime) * time.Second).String(),
		stats.CPUModel, stats.LogicalCPUs, stats.Load1,
		stats.MemUsed/kb/kb, stats.MemTotal/kb/kb, stats.MemUsedPercent,
	), nil
}

func (d *Dev) user(ctx context.Context, _ *domain.Message, args []string) (string, error) {
	if d.users == nil {
		return fmt.Sprintf(devNotConfigured, "user store"), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("usage: %s user <id>", d.command)
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid user id %q: %w", args[0], err)
	}

	name, err := d.users.GetUserName(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return devUserNotFound, nil
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("👤 %d: %s", id, name), nil
}

func (d *Dev) broadcast(ctx context.Context, message *domain.Message, _ []string) (string, error) {
	if d.broadcaster == nil {
		return fmt.Sprintf(devNotConfigured, "broadcast"), nil
	}

	text := domain.ParseCommandArgs(domain.ParseCommandArgs(message.Text))
	if text == "" {
		return "", fmt.Errorf("usage: %s broadcast <text>", d.command)
	}

	sent, err := d.broadcaster.Broadcast(ctx, text)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("📣 Broadcast delivered to %d users.", sent), nil
}
