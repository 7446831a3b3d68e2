package remote

import (
	"encoding/json"
	"errors"
	"fmt"
)

// offlineError is the error string the offline gateway synthesizes for
// live-data requests that fail at the transport layer.
const offlineError = "Offline"

// envelope is the document-store response wrapper. Every response is either
// a success variant carrying data or a failure variant carrying an error
// string, so callers always get a well-formed result even when the gateway
// answers for an unreachable network.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// decodeEnvelope unwraps body into out. A failure variant whose error is the
// gateway's offline marker maps to ErrNetworkUnavailable; any other failure
// surfaces its server-side message. out may be nil when the caller only
// cares about success.
func decodeEnvelope(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !env.Success {
		if env.Error == offlineError {
			return ErrNetworkUnavailable
		}
		return errors.New(env.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}
