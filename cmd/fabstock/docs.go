package main

// @title FabStock API
// @version 1.0
// @description Inventory, machine maintenance and team management for a fabrication lab.
// @description Data lives in a local store or a remote PostgreSQL backend and can be migrated between them.

// @contact.name API Support
// @contact.url http://github.com/tair/fabstock

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @tag.name Auth
// @tag.description Passwordless sign-in

// @tag.name Dashboard
// @tag.description Stock summary

// @tag.name Inventory
// @tag.description Stock items and their history

// @tag.name Maintenance
// @tag.description Machines and maintenance tickets

// @tag.name Team
// @tag.description Members and invitations

// @tag.name Assistant
// @tag.description AI extraction and advice

// @tag.name Sync
// @tag.description Storage mode, settings and migration

// @tag.name Health
// @tag.description Health check endpoints
