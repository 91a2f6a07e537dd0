package pharmapi

import "encoding/json"

// Result is the outcome envelope. It is the only shape ever handed back
// to feature code: either {Success:true, Payload} with the parsed server
// body, or {Success:false, Message} with a classified human-readable
// message.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Payload map[string]any `json:"-"`
}

// failure collapses a classified error into a failed envelope.
func failure(err error) Result {
	return Result{Success: false, Message: err.Error()}
}

// String returns the named payload field rendered as a string. JSON
// numbers are formatted without an exponent; absent or non-scalar fields
// return "".
func (r Result) String(key string) string {
	if r.Payload == nil {
		return ""
	}
	return scalarString(r.Payload[key])
}

// Bool returns the named payload field as a boolean, treating absent or
// non-boolean fields as false.
func (r Result) Bool(key string) bool {
	if r.Payload == nil {
		return false
	}
	b, _ := r.Payload[key].(bool)
	return b
}

// Decode re-marshals the payload into a typed value for consumers that
// want a concrete struct instead of the generic map.
func (r Result) Decode(v any) error {
	data, err := json.Marshal(r.Payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// MarshalJSON renders the envelope the way the backend contract spells
// it: payload fields are spread at the top level next to "success".
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Payload)+2)
	for k, v := range r.Payload {
		out[k] = v
	}
	out["success"] = r.Success
	if r.Message != "" {
		out["message"] = r.Message
	}
	return json.Marshal(out)
}
