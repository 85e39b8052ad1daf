package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameHTTPRateLimited      = "http_requests_rate_limited_total"
	MetricNameHTTPAuthFailures     = "http_auth_failures_total"
)

// Business metric names
const (
	MetricNamePurchasesTotal       = "purchases_total"
	MetricNameBarterOffersTotal    = "barter_offers_total"
	MetricNameBarterRollsTotal     = "barter_rolls_total"
	MetricNameItemsBought          = "items_bought_total"
	MetricNameGoldSpent            = "gold_spent_total"
	MetricNameLedgerPostFailures   = "ledger_post_failures_total"
	MetricNameDiscordCommandsTotal = "discord_commands_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextHTTPRateLimited      = "Total number of HTTP requests rejected by the per-tenant rate limit"
	HelpTextHTTPAuthFailures     = "Total number of HTTP requests rejected for a bad API key"
)

// Business metric help text
const (
	HelpTextPurchasesTotal       = "Total number of purchase attempts by outcome"
	HelpTextBarterOffersTotal    = "Total number of barter offers by the buyer's answer"
	HelpTextBarterRollsTotal     = "Total number of barter rolls by result"
	HelpTextItemsBought          = "Total number of item units bought"
	HelpTextGoldSpent            = "Total gold spent buying items"
	HelpTextLedgerPostFailures   = "Total number of transaction records that could not be posted"
	HelpTextDiscordCommandsTotal = "Total number of Discord commands handled"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelOutcome = "outcome"
	LabelChoice  = "choice"
	LabelResult  = "result"
	LabelCommand = "command"
)

// Purchase outcomes
const (
	OutcomeCompleted         = "completed"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeInvalid           = "invalid"
	OutcomeFailed            = "failed"
)

// Barter roll results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// unmatchedRoute labels requests that no route matched
const unmatchedRoute = "unmatched"
