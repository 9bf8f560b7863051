package confirmation

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Keys of the structured format are matched exactly.
var payloadJSON = jsoniter.Config{
	EscapeHTML:             true,
	ValidateJsonRawMessage: true,
	CaseSensitive:          true,
}.Froze()

// structuredFields accepts any JSON type per field so that a wrongly typed field
// is reported through the protocol reasons instead of a JSON type error.
type structuredFields struct {
	OrderID   any `json:"order_id"`
	Type      any `json:"type"`
	Hash      any `json:"hash"`
	Timestamp any `json:"timestamp"`
}

// Decode turns a raw scanned string into a DecodedConfirmation.
//
// The structured form is tried first. A JSON object tagged as a delivery
// confirmation but without a usable order_id is rejected with missing_order_id and
// the compact form is not attempted. Anything else that is not a tagged object
// falls through to the compact form; if that does not match either, the result is
// unrecognized_format.
func Decode(raw string) (DecodedConfirmation, error) {
	payload, err := Parse(raw)
	if err != nil {
		return DecodedConfirmation{}, err
	}
	return payload.confirmation()
}

// Parse resolves raw into one of the QRPayload variants without normalizing it.
func Parse(raw string) (QRPayload, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, Reject(ReasonUnrecognizedFormat)
	}

	structured, ok, err := parseStructured(raw)
	if err != nil {
		return nil, err
	}
	if ok {
		return structured, nil
	}

	if payload, ok := parseCompact(raw); ok {
		return payload, nil
	}

	return nil, Reject(ReasonUnrecognizedFormat)
}

// parseStructured reports ok=false when raw is not a tagged JSON object, so the
// caller may fall back to the compact form.
func parseStructured(raw string) (StructuredPayload, bool, error) {
	var fields structuredFields
	if err := payloadJSON.UnmarshalFromString(raw, &fields); err != nil {
		return StructuredPayload{}, false, nil
	}

	tag, _ := fields.Type.(string)
	if tag != StructuredType {
		return StructuredPayload{}, false, nil
	}

	orderID, _ := fields.OrderID.(string)
	if orderID == "" {
		return StructuredPayload{}, false, Reject(ReasonMissingOrderID)
	}

	payload := StructuredPayload{
		OrderID:   orderID,
		Type:      tag,
		Timestamp: toEpochMillis(fields.Timestamp),
	}
	if hash, ok := fields.Hash.(string); ok && hash != "" {
		payload.Hash = &hash
	}
	return payload, true, nil
}

func parseCompact(raw string) (CompactPayload, bool) {
	segments := strings.Split(raw, CompactSeparator)
	if len(segments) != 3 || segments[0] != CompactPrefix {
		return CompactPayload{}, false
	}
	return CompactPayload{OrderID: segments[1], Code: segments[2]}, true
}

func toEpochMillis(v any) int64 {
	if f, ok := v.(float64); ok {
		return int64(f)
	}
	return 0
}
