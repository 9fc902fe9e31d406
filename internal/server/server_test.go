package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/deepthink/internal/protocol"
	"github.com/steveyegge/deepthink/internal/session"
	"github.com/steveyegge/deepthink/internal/thinking"
)

func newTestServer(in string, opts Options) (*Server, *bytes.Buffer) {
	handler := protocol.NewHandler(thinking.NewEngine(), session.NewMemoryStore(), nil, "deepthink", "test")
	out := &bytes.Buffer{}
	return New(handler, nil, strings.NewReader(in), out, opts), out
}

func responses(t *testing.T, out *bytes.Buffer) []protocol.Message {
	t.Helper()
	var msgs []protocol.Message
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var msg protocol.Message
		require.NoError(t, json.Unmarshal([]byte(line), &msg), "response line: %s", line)
		msgs = append(msgs, msg)
	}
	return msgs
}

func TestServer_StartIterateFlow(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"initialize"}
{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"deep_thinking","arguments":{"action":"start","task":"Build a REST API","sessionId":"s1"}}}
{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"deep_thinking","arguments":{"action":"iterate","sessionId":"s1","response":"Final implemented solution, fully tested and ready to deploy, confidence: 0.9"}}}
`
	srv, out := newTestServer(input, Options{})
	require.NoError(t, srv.Run(context.Background()))

	msgs := responses(t, out)
	require.Len(t, msgs, 3)
	for i, msg := range msgs {
		assert.Nilf(t, msg.Error, "response %d should succeed", i)
	}

	// IDs must line up with requests, in order.
	assert.Equal(t, float64(1), msgs[0].ID)
	assert.Equal(t, float64(2), msgs[1].ID)
	assert.Equal(t, float64(3), msgs[2].ID)

	var result protocol.CallResult
	payload, err := json.Marshal(msgs[2].Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &result))
	assert.True(t, result.IsComplete)
	assert.Empty(t, result.Prompt)
	assert.Equal(t, thinking.StopProductionReady, result.StopReason)
}

func TestServer_MalformedLineGetsParseError(t *testing.T) {
	input := "this is not json\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n"

	srv, out := newTestServer(input, Options{})
	require.NoError(t, srv.Run(context.Background()))

	msgs := responses(t, out)
	require.Len(t, msgs, 2, "server must keep serving after a parse error")
	require.NotNil(t, msgs[0].Error)
	assert.Equal(t, protocol.CodeParseError, msgs[0].Error.Code)
	assert.Nil(t, msgs[1].Error)
}

func TestServer_InvalidEnvelope(t *testing.T) {
	input := `{"jsonrpc":"1.0","id":1,"method":"tools/list"}` + "\n" +
		`{"jsonrpc":"2.0","id":2}` + "\n"

	srv, out := newTestServer(input, Options{})
	require.NoError(t, srv.Run(context.Background()))

	msgs := responses(t, out)
	require.Len(t, msgs, 2)
	for i, msg := range msgs {
		require.NotNilf(t, msg.Error, "response %d", i)
		assert.Equal(t, protocol.CodeInvalidRequest, msg.Error.Code)
	}
}

func TestServer_SkipsBlankLines(t *testing.T) {
	input := "\n\n" + `{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n\n"

	srv, out := newTestServer(input, Options{})
	require.NoError(t, srv.Run(context.Background()))

	assert.Len(t, responses(t, out), 1)
}

func TestServer_OversizedLine(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"x":"` +
		strings.Repeat("a", 4096) + `"}}` + "\n"

	srv, out := newTestServer(input, Options{MaxLineBytes: 1024})
	require.NoError(t, srv.Run(context.Background()), "oversized input must not be a transport error")

	msgs := responses(t, out)
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].Error)
	assert.Equal(t, protocol.CodeParseError, msgs[0].Error.Code)
}

func TestServer_ContextCancellation(t *testing.T) {
	// An input that never produces a line keeps the scanner blocked; Run
	// must still return promptly once the context is canceled.
	srv, _ := newTestServer("", Options{})
	srv.in = &blockingReader{done: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

// blockingReader blocks until closed, like a quiet stdin.
type blockingReader struct{ done chan struct{} }

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, io.EOF
}

func (r *blockingReader) Close() error {
	close(r.done)
	return nil
}
