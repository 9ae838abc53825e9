package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
)

// maxConcurrentCalls bounds tool calls in flight on the stdio transport.
const maxConcurrentCalls = 5

// ServeStdio reads newline-delimited JSON-RPC messages from in and writes
// responses to out until in reaches EOF or ctx is cancelled. Tool calls run
// concurrently; every other message is answered in order.
func (p *Protocol) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			if strings.TrimSpace(line) != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	var (
		wg      sync.WaitGroup
		writeMu sync.Mutex
	)
	sem := make(chan struct{}, maxConcurrentCalls)
	defer wg.Wait()

	write := func(response mcp.JSONRPCMessage) {
		if response == nil {
			return
		}
		data, err := json.Marshal(response)
		if err != nil {
			p.logger.Error().Err(err).Msg("failed to encode response")
			return
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
			p.logger.Error().Err(err).Msg("failed to write response")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading stdin: %w", err)
		case line := <-lines:
			message := json.RawMessage(strings.TrimSpace(line))
			if _, isCall := parseToolCall(message); !isCall {
				write(p.HandleMessage(ctx, message))
				continue
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				write(p.HandleMessage(ctx, message))
			}()
		}
	}
}
