package prover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// NetworkClient posts proving jobs to an external SP1 proving endpoint and
// waits synchronously for the completed artifact.
type NetworkClient struct {
	endpoint   string
	privateKey string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNetworkClient creates a live prover client.
func NewNetworkClient(endpoint, privateKey string, logger *slog.Logger) *NetworkClient {
	return &NetworkClient{
		endpoint:   endpoint,
		privateKey: privateKey,
		httpClient: &http.Client{Timeout: proveTimeout},
		logger:     logger,
	}
}

// Mode reports the provenance mode of artifacts from this client.
func (c *NetworkClient) Mode() string { return ModeNetwork }

type proveResponse struct {
	Proof        string `json:"proof"`
	PublicInputs string `json:"publicInputs"`
	Error        string `json:"error,omitempty"`
}

// Prove submits the inputs and blocks until the proving service responds or
// the two-minute bound expires. Provider-side HTTP errors are propagated as
// failures, never swallowed.
func (c *NetworkClient) Prove(ctx context.Context, in Inputs) (*Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, proveTimeout)
	defer cancel()

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding prover inputs: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building prover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.privateKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling prover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("prover returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out proveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding prover response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("prover error: %s", out.Error)
	}
	if out.Proof == "" || out.PublicInputs == "" {
		return nil, fmt.Errorf("prover returned an incomplete artifact")
	}

	c.logger.Info("proof generated", "mode", ModeNetwork, "duration", time.Since(start).String())

	return &Artifact{
		Proof:        out.Proof,
		PublicInputs: out.PublicInputs,
		Mode:         ModeNetwork,
	}, nil
}
