// Package devserver hosts Weft elements during development.
//
// The dev server is the in-process implementation of the platform
// collaborators the element binder expects: it owns an element
// registry, hands out render targets, and renders descriptions to
// escaped HTML. Each browser tab gets one element instance over a
// WebSocket session; attribute-change frames from the client are
// delivered through Instance.AttributeChanged, and every render pass
// pushes a replacement HTML fragment back over the socket.
//
// Routes:
//
//	GET /                   index of registered elements
//	GET /elements/{name}    host page for one element
//	GET /ws/{name}          WebSocket session for one instance
//	GET /healthz            liveness probe
//	GET /metrics            Prometheus exposition (when enabled)
//
// There is no virtual-tree diffing: a render replaces the fragment
// wholesale, which is all a development harness needs.
package devserver
