package stacks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/educhain/records/internal/clarity"
	"github.com/educhain/records/internal/models"
)

// FunctionGetRecords is the read-only contract function returning a
// subject's records.
const FunctionGetRecords = "get-records"

// QueryClient performs read-only calls against the node. Reads use the
// session principal as sender when one is signed in, otherwise the
// configured read sender. The fallback defaults to the contract's own
// address, which makes reads effectively public; deployments wanting to
// restrict unauthenticated reads configure a dedicated sender instead.
type QueryClient struct {
	httpClient      *http.Client
	baseURL         string
	contractAddress string
	contractName    string
	readSender      string
	session         SessionSource
	log             *zap.Logger
	metrics         Metrics
}

// NewQueryClient constructs a QueryClient. session and metrics may be
// nil; with a nil session every read uses readSender.
func NewQueryClient(httpClient *http.Client, baseURL, contractAddress, contractName, readSender string, session SessionSource, log *zap.Logger, metrics Metrics) *QueryClient {
	return &QueryClient{
		httpClient:      httpClient,
		baseURL:         strings.TrimRight(baseURL, "/"),
		contractAddress: contractAddress,
		contractName:    contractName,
		readSender:      readSender,
		session:         session,
		log:             log,
		metrics:         metrics,
	}
}

// callReadBody is the node's read-only call request body.
type callReadBody struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"`
}

// callReadResponse is the node's read-only call response body.
type callReadResponse struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result"`
	Cause  string `json:"cause"`
}

// FetchRecords fetches the academic records owned by subject. Transport
// problems (connection errors, timeouts, non-2xx) are reported as
// QueryTransportFailure so callers may retry; malformed bodies and
// ledger values are QueryDecodeFailure and should not be retried.
func (c *QueryClient) FetchRecords(ctx context.Context, subject models.Principal) ([]models.AcademicRecord, error) {
	subjectCV, err := clarity.Principal(subject.String())
	if err != nil {
		return nil, &ValidationError{Field: "subject", Err: ErrBadSubject}
	}

	body, err := json.Marshal(callReadBody{
		Sender:    c.sender(),
		Arguments: []string{clarity.SerializeHex(subjectCV)},
	})
	if err != nil {
		return nil, fmt.Errorf("encode call-read body: %w", err)
	}

	url := fmt.Sprintf("%s/v2/contracts/call-read/%s/%s/%s",
		c.baseURL, c.contractAddress, c.contractName, FunctionGetRecords)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build call-read request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(0, start)
		return nil, &QueryError{Kind: QueryTransportFailure, Message: "call-read request failed", Err: err}
	}
	defer resp.Body.Close()
	c.record(resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &QueryError{
			Kind:    QueryTransportFailure,
			Message: fmt.Sprintf("node returned status %d: %s", resp.StatusCode, string(raw)),
		}
	}

	var call callReadResponse
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return nil, &QueryError{Kind: QueryDecodeFailure, Message: "unreadable call-read response", Err: err}
	}
	if !call.Okay {
		return nil, &QueryError{Kind: QueryDecodeFailure, Message: fmt.Sprintf("read evaluation failed: %s", call.Cause)}
	}

	value, err := clarity.DeserializeHex(call.Result)
	if err != nil {
		return nil, &QueryError{Kind: QueryDecodeFailure, Message: "undecodable result value", Err: err}
	}
	records, err := decodeRecords(value)
	if err != nil {
		return nil, &QueryError{Kind: QueryDecodeFailure, Message: "unexpected result shape", Err: err}
	}

	c.log.Debug("fetched records from ledger",
		zap.String("subject", subject.String()),
		zap.Int("count", len(records)))
	return records, nil
}

// sender resolves the read sender identity: the signed-in principal
// when available, otherwise the configured fallback.
func (c *QueryClient) sender() string {
	if c.session != nil {
		if principal, ok := c.session.CurrentPrincipal(); ok {
			return principal.String()
		}
	}
	return c.readSender
}

func (c *QueryClient) record(status int, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordReadCall(status, time.Since(start))
	}
}

// decodeRecords unpacks an (ok (list (tuple ...))) value into records.
func decodeRecords(value clarity.Value) ([]models.AcademicRecord, error) {
	resp, ok := value.(clarity.ResponseValue)
	if !ok {
		return nil, fmt.Errorf("expected response, got tag 0x%02x", value.Type())
	}
	if !resp.Ok {
		return nil, fmt.Errorf("contract returned err response")
	}
	list, ok := resp.Inner.(clarity.ListValue)
	if !ok {
		return nil, fmt.Errorf("expected list, got tag 0x%02x", resp.Inner.Type())
	}

	records := make([]models.AcademicRecord, 0, len(list.Items))
	for i, item := range list.Items {
		tuple, ok := item.(clarity.TupleValue)
		if !ok {
			return nil, fmt.Errorf("entry %d: expected tuple, got tag 0x%02x", i, item.Type())
		}
		record, err := decodeRecord(tuple)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// decodeRecord maps a single record tuple onto the model.
func decodeRecord(tuple clarity.TupleValue) (models.AcademicRecord, error) {
	var record models.AcademicRecord
	var err error

	if record.ID, err = tupleString(tuple, "id"); err != nil {
		return record, err
	}
	if record.Course, err = tupleString(tuple, "course"); err != nil {
		return record, err
	}
	if record.Grade, err = tupleString(tuple, "grade"); err != nil {
		return record, err
	}
	if record.Institution, err = tupleString(tuple, "institution"); err != nil {
		return record, err
	}
	if record.TransactionID, err = tupleString(tuple, "tx-id"); err != nil {
		return record, err
	}

	year, ok := tuple.Get("year").(clarity.UintValue)
	if !ok {
		return record, fmt.Errorf("field %q missing or not a uint", "year")
	}
	record.Year = int(year.N)

	verified, ok := tuple.Get("verified").(clarity.BoolValue)
	if !ok {
		return record, fmt.Errorf("field %q missing or not a bool", "verified")
	}
	record.Verified = verified.B

	return record, nil
}

func tupleString(tuple clarity.TupleValue, name string) (string, error) {
	v, ok := tuple.Get(name).(clarity.StringASCIIValue)
	if !ok {
		return "", fmt.Errorf("field %q missing or not a string", name)
	}
	return v.S, nil
}
