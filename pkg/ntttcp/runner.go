package ntttcp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long output pipes are drained after a process is
// killed, in case the tool left children holding them open.
const waitDelay = 5 * time.Second

type Result struct {
	Sender   *Report
	Receiver *Report
	Elapsed  time.Duration
}

// Runner runs one receiver/sender measurement with the external tool
type Runner struct {
	cfg    Config
	logger *slog.Logger
}

// NewRunner creates a runner using the given config. Zero fields are set to
// defaults before validation.
func NewRunner(cfg Config) (*Runner, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		logger: cfg.Logger,
	}, nil
}

func (r *Runner) Config() Config {
	return r.cfg
}

// Run starts the receiver, waits for the grace period, runs the sender to
// completion and finally collects the receiver output. Both processes are
// reaped before Run returns.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	path, err := exec.LookPath(r.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrToolNotFound, r.cfg.Path, err)
	}
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()

	var recvOut, recvErr bytes.Buffer
	receiver := exec.CommandContext(ctx, path, r.cfg.Args(Receiver)...)
	receiver.Stdout = &recvOut
	receiver.Stderr = &recvErr
	receiver.WaitDelay = waitDelay
	r.logger.LogAttrs(ctx, slog.LevelInfo, "Starting NTttcp receiver", slog.String("command", strings.Join(r.cfg.Command(Receiver), " ")))
	if err := receiver.Start(); err != nil {
		return nil, newProcessError(Receiver, err, "")
	}
	reaped := false
	defer func() {
		if !reaped {
			_ = receiver.Process.Kill()
			_ = receiver.Wait()
		}
	}()

	grace := time.NewTimer(r.cfg.Grace)
	select {
	case <-ctx.Done():
		grace.Stop()
		return nil, fmt.Errorf("waiting for receiver to start: %w", ctx.Err())
	case <-grace.C:
	}

	var sendOut, sendErr bytes.Buffer
	sender := exec.CommandContext(ctx, path, r.cfg.Args(Sender)...)
	sender.Stdout = &sendOut
	sender.Stderr = &sendErr
	sender.WaitDelay = waitDelay
	r.logger.LogAttrs(ctx, slog.LevelInfo, "Starting NTttcp sender", slog.String("command", strings.Join(r.cfg.Command(Sender), " ")))
	if err := sender.Run(); err != nil {
		return nil, r.failure(ctx, newProcessError(Sender, err, sendErr.String()))
	}
	senderReport := ParseReport(Sender, sendOut.String(), sendErr.String())
	r.logger.LogAttrs(ctx, slog.LevelInfo, "NTttcp sender finished", slog.Int("bytes", sendOut.Len()), slog.Bool("totals", senderReport.HasTotals))
	if r.cfg.OnSender != nil {
		r.cfg.OnSender(senderReport)
	}

	reaped = true
	if err := receiver.Wait(); err != nil {
		return nil, r.failure(ctx, newProcessError(Receiver, err, recvErr.String()))
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "NTttcp receiver finished", slog.Int("bytes", recvOut.Len()))

	res := &Result{
		Sender:   senderReport,
		Receiver: ParseReport(Receiver, recvOut.String(), recvErr.String()),
		Elapsed:  time.Since(start),
	}
	for _, rep := range []*Report{res.Sender, res.Receiver} {
		if !rep.HasTotals {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "NTttcp report has no totals section", slog.String("role", rep.Role.String()))
		}
	}
	return res, nil
}

func (r *Runner) failure(ctx context.Context, pe *ProcessError) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ctx.Err(), pe)
	}
	return pe
}
