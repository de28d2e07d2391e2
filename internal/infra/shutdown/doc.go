// Package shutdown coordinates graceful process termination.
//
// Hooks registered with OnShutdown run in reverse registration order once
// SIGINT or SIGTERM arrives (Wait) or a context ends (WaitContext), all
// under a shared timeout:
//
//	h := shutdown.NewHandler(15 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait()
package shutdown
