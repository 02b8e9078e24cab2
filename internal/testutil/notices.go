package testutil

import "github.com/leapstack-labs/feedlint/pkg/notice"

// Codes returns the codes of ns in order.
func Codes(ns []notice.Notice) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Code())
	}
	return out
}

// WithCode returns the notices of ns carrying code.
func WithCode(ns []notice.Notice, code string) []notice.Notice {
	var out []notice.Notice
	for _, n := range ns {
		if n.Code() == code {
			out = append(out, n)
		}
	}
	return out
}
