package transaction_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankx/transactions/internal/fixtures"
	"github.com/bankx/transactions/pkg/app"
	"github.com/bankx/transactions/pkg/broadcast"
	"github.com/bankx/transactions/pkg/config"
	"github.com/bankx/transactions/pkg/dto"
	"github.com/bankx/transactions/webapi"
	"github.com/bankx/transactions/webapi/common"
)

func newTestApp(t *testing.T) (*fiber.App, *fixtures.UnitOfWork) {
	t.Helper()
	uow := fixtures.NewUnitOfWork()
	ctx := context.Background()

	require.NoError(t, uow.Accounts.Create(ctx, dto.AccountCreate{
		ID: uuid.New(), Number: "001-0001", HolderName: "Ana Peru",
		Currency: "PEN", Balance: decimal.NewFromInt(2000),
	}))
	require.NoError(t, uow.Accounts.Create(ctx, dto.AccountCreate{
		ID: uuid.New(), Number: "001-0002", HolderName: "Luis Acuña",
		Currency: "PEN", Balance: decimal.NewFromInt(800),
	}))
	require.NoError(t, uow.RiskRules.Upsert(ctx, dto.RiskRuleCreate{
		Currency: "PEN", MaxDebitPerTx: decimal.NewFromInt(1500),
	}))

	cfg := &config.App{
		Env:       "test",
		RateLimit: config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Processor: config.Processor{MaxRetries: 3},
		Broadcast: config.Broadcast{BufferSize: 16, OverflowPolicy: "drop_oldest"},
	}
	a, err := app.New(&app.Deps{
		Uow:         uow,
		Broadcaster: broadcast.New(16, broadcast.DropOldest, slog.Default()),
		Logger:      slog.Default(),
	}, cfg)
	require.NoError(t, err)
	return webapi.New(a), uow
}

func makeRequest(t *testing.T, fiberApp *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) common.Response {
	t.Helper()
	var out common.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateTransaction_Created(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	resp := makeRequest(t, fiberApp, "POST", "/transactions",
		`{"accountNumber":"001-0001","type":"DEBIT","amount":100}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeResponse(t, resp)
	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "DEBIT", data["type"])
	assert.Equal(t, "OK", data["status"])
}

func TestCreateTransaction_ErrorMapping(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	cases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			"unknown account",
			`{"accountNumber":"missing","type":"DEBIT","amount":100}`,
			fiber.StatusNotFound,
		},
		{
			"risk rejected",
			`{"accountNumber":"001-0001","type":"DEBIT","amount":1501}`,
			fiber.StatusUnprocessableEntity,
		},
		{
			// 1000 is under the 1500 risk limit but over the 800 balance.
			"insufficient funds",
			`{"accountNumber":"001-0002","type":"DEBIT","amount":1000}`,
			fiber.StatusUnprocessableEntity,
		},
		{
			"unknown type",
			`{"accountNumber":"001-0001","type":"TRANSFER","amount":100}`,
			fiber.StatusBadRequest,
		},
		{
			"missing fields",
			`{"type":"DEBIT"}`,
			fiber.StatusBadRequest,
		},
		{
			"malformed body",
			`{"accountNumber":`,
			fiber.StatusBadRequest,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := makeRequest(t, fiberApp, "POST", "/transactions", tc.body)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
		})
	}
}

// 1500 then 1500 against a 2000 balance: the second debit must fail and the
// listing must contain exactly one record.
func TestCreateThenListTransactions(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	resp := makeRequest(t, fiberApp, "POST", "/transactions",
		`{"accountNumber":"001-0001","type":"DEBIT","amount":1500}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = makeRequest(t, fiberApp, "POST", "/transactions",
		`{"accountNumber":"001-0001","type":"DEBIT","amount":1500}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = makeRequest(t, fiberApp, "GET", "/accounts/001-0001/transactions", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeResponse(t, resp)
	list, ok := body.Data.([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestListTransactions_UnknownAccount(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	resp := makeRequest(t, fiberApp, "GET", "/accounts/missing/transactions", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
