package webhook

// Payload is a verified webhook body decoded as a JSON object.
// Its field set is defined by the API; only a few common fields get
// typed accessors.
type Payload map[string]any

// Event returns the event name, e.g. "message.delivered".
func (p Payload) Event() string {
	return p.str("event")
}

// ID returns the delivery identifier when the API includes one.
func (p Payload) ID() string {
	return p.str("id")
}

// Data returns the nested "data" object, or nil.
func (p Payload) Data() map[string]any {
	if data, ok := p["data"].(map[string]any); ok {
		return data
	}
	return nil
}

func (p Payload) str(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}
