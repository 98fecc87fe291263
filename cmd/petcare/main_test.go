package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"petcare-store/config"
	"petcare-store/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const draftJSON = `{
  "items": [{"id": "1", "name": "Premium Dog Food", "quantity": 1, "price": 2499}],
  "address": {"addressLine1": "12 Park Street", "city": "Kolkata", "pinCode": "700016"},
  "paymentMethod": "cod",
  "pricing": {"subtotal": 2499, "shipping": 0, "total": 2499}
}`

func TestMain(m *testing.M) {
	util.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

func TestOrderSession(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()

	dir := t.TempDir()
	draft := filepath.Join(dir, "draft.json")
	require.NoError(t, os.WriteFile(draft, []byte(draftJSON), 0o644))

	cfg := config.ClientConfig{
		APIURL:     down.URL,
		UserID:     config.DefaultClientUserID,
		OrdersFile: filepath.Join(dir, "orders.json"),
		Timeout:    time.Second,
	}
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, cfg, []string{"checkout", "-file", draft}, &out))
	assert.Contains(t, out.String(), "(stored locally)")
	id := regexp.MustCompile(`SP\d+`).FindString(out.String())
	require.NotEmpty(t, id)

	out.Reset()
	require.NoError(t, run(ctx, cfg, []string{"advance", "-id", id}, &out))
	assert.Contains(t, out.String(), "now preparing")

	out.Reset()
	require.NoError(t, run(ctx, cfg, []string{"status", "-id", id}, &out))
	assert.Contains(t, out.String(), "Preparing Order")
	assert.Contains(t, out.String(), "Order preparing")
	assert.Regexp(t, `\[x\]\s+preparing\s+\d`, out.String())
	assert.Regexp(t, `\[ \]\s+shipped\s+pending`, out.String())

	out.Reset()
	require.NoError(t, run(ctx, cfg, []string{"cancel", "-id", id, "-message", "Changed my mind"}, &out))
	assert.Contains(t, out.String(), "cancelled")

	out.Reset()
	require.NoError(t, run(ctx, cfg, []string{"status", "-id", id}, &out))
	assert.Regexp(t, `\[-\]\s+cancelled\s+\d`, out.String())
	assert.NotContains(t, out.String(), "pending")

	out.Reset()
	require.NoError(t, run(ctx, cfg, []string{"advance", "-id", id}, &out))
	assert.Contains(t, out.String(), "no further stage")

	out.Reset()
	require.NoError(t, run(ctx, cfg, []string{"orders"}, &out))
	assert.Contains(t, out.String(), id)
	assert.Contains(t, out.String(), "cancelled")

	assert.Error(t, run(ctx, cfg, []string{"cancel", "-id", id}, &out))
	assert.Error(t, run(ctx, cfg, []string{"status", "-id", "SP0"}, &out))
}

func TestUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), config.ClientConfig{}, []string{"fly"}, &out)
	assert.ErrorContains(t, err, "unknown command")
	assert.Contains(t, out.String(), "usage:")

	assert.Error(t, run(context.Background(), config.ClientConfig{}, nil, &out))
}
