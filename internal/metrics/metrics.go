package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultConflict = "conflict"
	ResultLocked   = "locked"
	ResultInactive = "inactive"

	StageRequested = "requested"
	StageCompleted = "completed"
)

//nolint:gochecknoglobals // collectors register once with the default registry
var (
	// LoginAttemptsTotal счетчик попыток входа по результату
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizauth_login_attempts_total",
		Help: "The total number of login attempts by result",
	}, []string{"result"})

	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizauth_registrations_total",
		Help: "The total number of registration attempts by result",
	}, []string{"result"})

	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizauth_token_refresh_total",
		Help: "The total number of token refreshes by result",
	}, []string{"result"})

	// AccountLockoutsTotal растет каждый раз, когда аккаунт блокируется
	AccountLockoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bizauth_account_lockouts_total",
		Help: "The total number of accounts locked after repeated login failures",
	})

	PasswordResetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizauth_password_resets_total",
		Help: "The total number of password reset requests and completions",
	}, []string{"stage"})
)

func RecordLogin(result string) { LoginAttemptsTotal.WithLabelValues(result).Inc() }

func RecordRegistration(result string) { RegistrationsTotal.WithLabelValues(result).Inc() }

func RecordRefresh(result string) { TokenRefreshTotal.WithLabelValues(result).Inc() }

func RecordLockout() { AccountLockoutsTotal.Inc() }

func RecordPasswordReset(stage string) { PasswordResetsTotal.WithLabelValues(stage).Inc() }

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
