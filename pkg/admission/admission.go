// Package admission is the request-perimeter policy gate: every request is
// evaluated against attack-signature shielding, bot classification, and a
// per-source token bucket before any business logic runs.
package admission

import (
	"net"
	"net/http"
	"strings"
	"time"
)

type Reason string

const (
	ReasonShieldBlocked Reason = "shield_blocked"
	ReasonBotDetected   Reason = "bot_detected"
	ReasonRateLimit     Reason = "rate_limit"
	ReasonPolicyDenied  Reason = "policy_denied"
)

// Decision is the combined outcome of all admission rules for one request.
type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason Reason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Status maps a deny reason to its HTTP status: 429 for rate limiting,
// 403 for everything else.
func (d Decision) Status() int {
	if d.Reason == ReasonRateLimit {
		return http.StatusTooManyRequests
	}
	return http.StatusForbidden
}

type Config struct {
	// Token bucket per source IP.
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
}

// Engine evaluates rules in fixed precedence: shield, bot detection, rate
// limiting. The first rule to deny wins.
type Engine struct {
	limiter *ipLimiter
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		limiter: newIPLimiter(cfg.Capacity, cfg.RefillTokens, cfg.RefillInterval),
	}
}

func (e *Engine) Evaluate(r *http.Request) Decision {
	return e.evaluateAt(r, time.Now())
}

func (e *Engine) evaluateAt(r *http.Request, now time.Time) Decision {
	if matchesAttackSignature(r) {
		return deny(ReasonShieldBlocked, "Blocked by rule")
	}

	switch classifyAgent(r.UserAgent()) {
	case agentCrawler:
		// Recognized search-engine crawlers bypass bot denial and the
		// rate limit, matching the allowlist semantics of the upstream
		// policy engine this replaces.
		return allow()
	case agentBot:
		return deny(ReasonBotDetected, "Bot detected")
	}

	if !e.limiter.allowAt(clientIP(r), now) {
		return deny(ReasonRateLimit, "Rate limit exceeded")
	}

	return allow()
}

// clientIP resolves the source address, honouring proxy headers the same way
// as the request logger: X-Forwarded-For first entry, then X-Real-IP, then
// the socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
