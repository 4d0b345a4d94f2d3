package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>pollboard - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the main endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "pollboard", "version": "v0.1.0" },
  "paths": {
    "/auth/register": {
      "post": { "summary": "Create an account and sign in", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"},"name":{"type":"string"}}}}}}, "responses": { "201": { "description": "tokens returned" }, "400": { "description": "provider rejected signup" } } }
    },
    "/auth/login": {
      "post": { "summary": "Exchange email/password for tokens", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "tokens returned" }, "401": { "description": "authentication failed" } } }
    },
    "/auth/refresh": {
      "post": { "summary": "Rotate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "new tokens" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate tokens", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/auth/logout-all": {
      "post": { "summary": "Revoke all refresh sessions for the user", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "all sessions revoked" }, "401": { "description": "invalid refresh" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Current user, null when anonymous", "responses": { "200": { "description": "user or null" } } }
    },
    "/api/v1/session": {
      "get": { "summary": "Current session state", "responses": { "200": { "description": "authenticated flag and sub" } } }
    },
    "/api/v1/polls": {
      "post": { "summary": "Create a poll", "responses": { "201": { "description": "created poll" }, "400": { "description": "validation failed" }, "401": { "description": "authentication required" } } },
      "get": { "summary": "List the caller's polls", "responses": { "200": { "description": "poll listing" }, "401": { "description": "authentication required" } } }
    },
    "/api/v1/polls/{id}": {
      "get": { "summary": "Fetch a poll by id (public)", "responses": { "200": { "description": "poll" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update an owned poll", "responses": { "200": { "description": "updated poll" }, "403": { "description": "not the owner" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete an owned poll", "responses": { "200": { "description": "deleted" }, "403": { "description": "not the owner" }, "404": { "description": "not found" } } }
    },
    "/api/v1/polls/{id}/votes": {
      "post": { "summary": "Vote on a poll (anonymous allowed)", "responses": { "201": { "description": "recorded vote" }, "400": { "description": "option index out of range" }, "404": { "description": "poll not found" } } }
    },
    "/api/v1/polls/{id}/results": {
      "get": { "summary": "Tally of votes per option", "responses": { "200": { "description": "tally" }, "404": { "description": "poll not found" } } }
    },
    "/api/v1/polls/{id}/export": {
      "post": { "summary": "Export results as CSV (owner only)", "responses": { "200": { "description": "presigned download url" }, "403": { "description": "not the owner" }, "503": { "description": "exports not configured" } } }
    }
  }
}`
