package transaction

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/bankx/transactions/pkg/dto"
	"github.com/bankx/transactions/pkg/processor"
)

// heartbeatInterval bounds how long a dead connection can hold a subscriber
// slot: the comment frame fails to flush once the client is gone even if no
// transactions are being committed.
const heartbeatInterval = 15 * time.Second

// Stream returns a Fiber handler that pushes every transaction committed
// after the request arrived as a server-sent event. The subscription starts
// empty (no replay) and is torn down when the client goes away.
func Stream(svc *processor.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		ch, cancel := svc.Subscribe()
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer cancel()
			heartbeat := time.NewTicker(heartbeatInterval)
			defer heartbeat.Stop()
			for {
				select {
				case tx, ok := <-ch:
					if !ok {
						return
					}
					if err := writeEvent(w, tx); err != nil {
						return
					}
				case <-heartbeat.C:
					if err := writeHeartbeat(w); err != nil {
						return
					}
				}
				if err := w.Flush(); err != nil {
					// Client disconnected.
					return
				}
			}
		}))
		return nil
	}
}

// writeEvent frames one transaction as an SSE event named "transaction".
func writeEvent(w io.Writer, tx dto.TransactionRead) error {
	payload, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: transaction\ndata: %s\n\n", payload)
	return err
}

// writeHeartbeat emits an SSE comment frame. Clients ignore it; a closed
// connection surfaces the write error so the stream can shut down.
func writeHeartbeat(w io.Writer) error {
	_, err := io.WriteString(w, ": keep-alive\n\n")
	return err
}
