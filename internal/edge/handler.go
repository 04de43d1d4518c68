// Package edge implements the viewer-request redirect in the shape
// CloudFront functions use, so the local preview and the deployed function
// answer identically.
package edge

// Request is the viewer-request event. Only the trigger matters; the
// handler never inspects it.
type Request struct {
	Method  string            `json:"method"`
	Host    string            `json:"host"`
	URI     string            `json:"uri"`
	Headers map[string]Header `json:"headers"`
}

type Header struct {
	Value string `json:"value"`
}

type Response struct {
	StatusCode        int               `json:"statusCode"`
	StatusDescription string            `json:"statusDescription"`
	Headers           map[string]Header `json:"headers"`
}

// Function is the redirect handler. It is a constant function of its rule:
// no I/O, no mutable state, safe under arbitrary concurrent invocation.
type Function struct {
	rule Rule
}

func NewFunction(rule Rule) *Function {
	return &Function{rule: rule}
}

func (f *Function) Rule() Rule { return f.rule }

// Handle returns the fixed redirect for any request.
func (f *Function) Handle(_ Request) Response {
	return Response{
		StatusCode:        f.rule.StatusCode,
		StatusDescription: "Moved Permanently",
		Headers: map[string]Header{
			"location": {Value: f.rule.TargetURL},
		},
	}
}
