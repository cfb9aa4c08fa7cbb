package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedAuthorityRoutes(mux, handler, verifier)
	registerAuthorizedJoinRoutes(mux, handler, verifier)
	registerAuthorizedScoreRoutes(mux, handler, verifier)
	registerAuthorizedNotificationRoutes(mux, handler, verifier)
	registerAuthorizedAssignmentRoutes(mux, handler, verifier)
}

func registerAuthorizedAuthorityRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/teams/{teamID}/promote", RequireAuth(verifier, http.HandlerFunc(handler.PromoteMember)))
	mux.Handle("POST /v1/leagues/{leagueID}/transfer-manager", RequireAuth(verifier, http.HandlerFunc(handler.TransferLeagueManager)))
}

func registerAuthorizedJoinRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/join-requests", RequireAuth(verifier, http.HandlerFunc(handler.CreateJoinRequest)))
	mux.Handle("POST /v1/join-requests/{requestID}/decision", RequireAuth(verifier, http.HandlerFunc(handler.DecideJoinRequest)))
	mux.Handle("GET /v1/join-requests/pending", RequireAuth(verifier, http.HandlerFunc(handler.ListPendingJoinRequests)))
}

func registerAuthorizedScoreRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches/{matchID}/scores", RequireAuth(verifier, http.HandlerFunc(handler.SubmitScore)))
	mux.Handle("GET /v1/leagues/{leagueID}/score-dashboard", RequireAuth(verifier, http.HandlerFunc(handler.GetScoreDashboard)))
}

func registerAuthorizedNotificationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/notifications", RequireAuth(verifier, http.HandlerFunc(handler.ListNotifications)))
	mux.Handle("POST /v1/notifications/{notificationID}/read", RequireAuth(verifier, http.HandlerFunc(handler.MarkNotificationRead)))
	mux.Handle("POST /v1/notifications/read-all", RequireAuth(verifier, http.HandlerFunc(handler.MarkAllNotificationsRead)))
	mux.Handle("DELETE /v1/notifications", RequireAuth(verifier, http.HandlerFunc(handler.DeleteAllNotifications)))
}

func registerAuthorizedAssignmentRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/assignments", RequireAuth(verifier, http.HandlerFunc(handler.CreateAssignment)))
	mux.Handle("POST /v1/assignments/{assignmentID}/confirm", RequireAuth(verifier, http.HandlerFunc(handler.ConfirmAssignment)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /internal/jobs/reconcile-consistency", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReconcileConsistencyJob)))
	mux.Handle("POST /internal/jobs/retire-obsolete", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRetireObsoleteJob)))
}
