package user

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// loginAttempts counts login outcomes by error kind ("success" on success).
var loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "auth_logins_total",
	Help: "Login attempts by outcome.",
}, []string{"outcome"})
