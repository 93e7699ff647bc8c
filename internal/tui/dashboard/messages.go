package dashboard

import (
	"time"

	"github.com/gorilla/websocket"

	"vibedash/internal/models"
)

// Fetch responses carry the generation token they were requested
// under. The model drops responses whose token no longer matches,
// so a slow fetch can never overwrite the result of a newer one.
type dataLoadedMsg struct {
	token string
	data  models.DashboardData
}

type dataErrMsg struct {
	token string
	err   error
}

// renderChunkMsg reveals the next batch of project cards. Large
// project lists are revealed incrementally to keep the first paint
// fast.
type renderChunkMsg struct {
	token string
}

// actionResultMsg is the outcome of a dispatched project action.
type actionResultMsg struct {
	action models.ActionID
	path   string
	result models.ActionResult
	err    error
}

// openResultMsg is the outcome of an editor/terminal open request.
type openResultMsg struct {
	result models.ActionResult
	err    error
}

type toastExpiredMsg struct {
	id string
}

// Websocket lifecycle messages
type wsConnectedMsg struct {
	conn *websocket.Conn
}

type wsEventMsg struct {
	event string
}

type wsClosedMsg struct {
	err error
}

type wsRetryMsg time.Time
