package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Total number of orders created, by payment method.",
	}, []string{"payment_method"})

	orderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "orders",
		Name:      "transitions_total",
		Help:      "Total number of applied status transitions.",
	}, []string{"from", "to"})

	stockRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "inventory",
		Name:      "stock_rejections_total",
		Help:      "Total number of orders rejected for insufficient stock.",
	})

	compensationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "inventory",
		Name:      "compensation_failures_total",
		Help:      "Total number of stock compensations that could not be applied.",
	})

	paymentCallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "payments",
		Name:      "callbacks_total",
		Help:      "Total number of gateway callbacks, by outcome.",
	}, []string{"result"})

	sweeperCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "sweeper",
		Name:      "cancelled_total",
		Help:      "Total number of expired unpaid orders cancelled.",
	})

	sweeperErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "sweeper",
		Name:      "errors_total",
		Help:      "Total number of orders the sweeper failed to cancel.",
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Order cache lookups, by hit or miss.",
	}, []string{"result"})
)
