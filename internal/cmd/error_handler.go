package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/justpilot/billomat-go"
	"github.com/justpilot/billomat-go/internal/config"
	"github.com/justpilot/billomat-go/internal/resolve"
)

// errorPayload is the JSON error document printed to stderr in JSON mode.
type errorPayload struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

func structuredError(err error) errorPayload {
	body := errorBody{Code: errorCode(err), Message: err.Error(), Status: billomat.StatusCode(err)}
	var httpErr *billomat.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		body.Message = httpErr.Message
	}
	return errorPayload{Error: body}
}

func errorCode(err error) string {
	var ambiguous *resolve.AmbiguousError
	var nf *notFoundError
	switch {
	case errors.Is(err, config.ErrNotConfigured), errors.Is(err, billomat.ErrMissingCredentials):
		return "not_configured"
	case billomat.IsAuthenticationError(err):
		return "unauthorized"
	case billomat.IsNotFoundError(err), errors.As(err, &nf):
		return "not_found"
	case billomat.IsValidationError(err):
		return "validation_failed"
	case billomat.IsUnexpectedResponse(err):
		return "unexpected_response"
	case errors.As(err, &ambiguous):
		return "ambiguous"
	case billomat.StatusCode(err) >= 500:
		return "server_error"
	case isNetworkError(err):
		return "network_error"
	case isUsageError(err):
		return "usage_error"
	default:
		return "error"
	}
}

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var httpErr *billomat.HTTPError
	var unexpected *billomat.UnexpectedResponseError

	switch {
	case errors.Is(err, config.ErrNotConfigured), errors.Is(err, billomat.ErrMissingCredentials):
		fmt.Fprintf(&msg, "Error: %s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: billomat auth login\n")
		msg.WriteString("  - Or export BILLOMAT_ID and BILLOMAT_API_KEY\n")

	case errors.As(err, &unexpected):
		fmt.Fprintf(&msg, "Unexpected response from Billomat: %s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Use --debug to see the raw request\n")
		msg.WriteString("  - Check BILLOMAT_BASE_URL if you use a proxy or mock server\n")

	case errors.As(err, &httpErr):
		if prefix := wrapContext(err, httpErr); prefix != "" {
			fmt.Fprintf(&msg, "%s: ", prefix)
		}
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", httpErr.StatusCode, httpErr.Message)
		msg.WriteString(suggestionsForStatusCode(httpErr.StatusCode, httpErr.Body))

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the base URL: billomat auth status\n")
		msg.WriteString("  - Check your network connection\n")

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the Billomat ID spelling, it is part of the host name\n")
		msg.WriteString("  - Verify your DNS settings\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

// wrapContext returns the text commands put in front of inner with
// fmt.Errorf("...: %w"), or "" when err is inner itself.
func wrapContext(err, inner error) string {
	outer, in := err.Error(), inner.Error()
	if outer == in || !strings.HasSuffix(outer, ": "+in) {
		return ""
	}
	return strings.TrimSuffix(outer, ": "+in)
}

func suggestionsForStatusCode(code int, body string) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch code {
	case 400, 422:
		suggestions.WriteString("  - Check your input values\n")
		suggestions.WriteString("  - Use --dry-run to preview the request\n")
		if strings.Contains(body, "required") {
			suggestions.WriteString("  - A required field may be missing\n")
		}

	case 401:
		suggestions.WriteString("  - Your API key may be invalid or revoked\n")
		suggestions.WriteString("  - Run: billomat auth login\n")

	case 403:
		suggestions.WriteString("  - The API user lacks permission for this action\n")
		suggestions.WriteString("  - Check app credentials if your account requires them\n")

	case 404:
		suggestions.WriteString("  - Check the ID is correct\n")
		suggestions.WriteString("  - The resource may have been deleted\n")

	case 429:
		suggestions.WriteString("  - Billomat limits requests per API key\n")
		suggestions.WriteString("  - Wait and retry\n")

	case 500, 502, 503, 504:
		suggestions.WriteString("  - Server error, wait and retry\n")

	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}
