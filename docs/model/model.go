// Package model describes the architecture of the task tracker, render it with:
//
//	mdl serve github.com/sanLimbu/task-tracker/docs/model -dir docs/model
package model

import (
	. "goa.design/model/dsl"
)

var _ = Design("Task Tracker", "Multi-user task tracking service.", func() {
	var System = SoftwareSystem("Task Tracker", "Registers users and keeps track of their tasks.", func() {
		Container("REST Server", "Authenticates users and exposes the tasks API.", "Go and chi", func() {
			Uses("PostgreSQL", "Reads from and writes to", "SQL/TCP", Synchronous)
			Uses("Memcached", "Caches tasks", "TCP", Synchronous)
			Uses("Redis", "Stores revoked tokens", "RESP", Synchronous)
			Uses("Elasticsearch", "Searches tasks", "HTTP", Synchronous)
			Uses("Kafka", "Publishes task events", "TCP", Asynchronous)
			Uses("RabbitMQ", "Publishes task events", "AMQP", Asynchronous)
			Uses("Vault", "Reads secrets", "HTTP", Synchronous)
			Tag("Service")
		})

		Container("Elasticsearch Indexer", "Indexes the tasks events.", "Go", func() {
			Uses("Kafka", "Consumes task events", "TCP", Asynchronous)
			Uses("RabbitMQ", "Consumes task events", "AMQP", Asynchronous)
			Uses("Elasticsearch", "Indexes tasks", "HTTP", Synchronous)
			Tag("Service")
		})

		Container("PostgreSQL", "Stores users and tasks.", "PostgreSQL", func() {
			Tag("Database")
		})

		Container("Memcached", "Task cache.", "Memcached", func() {
			Tag("Database")
		})

		Container("Redis", "Token revocation list.", "Redis", func() {
			Tag("Database")
		})

		Container("Elasticsearch", "Full text search index.", "Elasticsearch", func() {
			Tag("Database")
		})

		Container("Kafka", "Task events topic.", "Kafka", func() {
			Tag("Infrastructure")
		})

		Container("RabbitMQ", "Task events exchange.", "RabbitMQ", func() {
			Tag("Infrastructure")
		})

		Container("Vault", "Secrets storage.", "HashiCorp Vault", func() {
			Tag("Infrastructure")
		})
	})

	Person("User", "Someone keeping track of their tasks.", func() {
		Uses("Task Tracker/REST Server", "Manages tasks", "HTTP/JSON", Synchronous)
		External()
	})

	Views(func() {
		SystemContextView(System, "SystemContext", "Task Tracker and its users.", func() {
			AddAll()
			AutoLayout(RankLeftRight)
		})

		ContainerView(System, "Containers", "Containers of the Task Tracker.", func() {
			AddAll()
			AutoLayout(RankLeftRight)
		})

		Styles(func() {
			ElementStyle("Database", func() {
				Shape(ShapeCylinder)
			})

			ElementStyle("Infrastructure", func() {
				Shape(ShapePipe)
			})
		})
	})
})
