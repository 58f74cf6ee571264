package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricLogins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authkit_logins_total",
		Help: "Completed OAuth logins.",
	})
	metricTokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authkit_token_pairs_issued_total",
		Help: "Access/refresh token pairs issued, including rotations.",
	})
	metricTokensRefreshed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authkit_tokens_refreshed_total",
		Help: "Successful refresh-token rotations.",
	})
	metricTokensRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authkit_tokens_revoked_total",
		Help: "Refresh tokens revoked through logout.",
	})
	metricReplaysBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authkit_refresh_replays_blocked_total",
		Help: "Refresh attempts rejected because the token was blacklisted.",
	})
	metricBlacklistSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authkit_blacklist_entries_swept_total",
		Help: "Expired blacklist entries removed by cleanup.",
	})
)
