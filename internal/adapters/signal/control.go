package signal

func (ctl *CallWSController) handlePing(conn *wsCallConn) {
	_ = ctl.sendJSON(conn, Message{Type: TypePong})
}

func (ctl *CallWSController) sendError(conn *wsCallConn, reason string) {
	_ = ctl.sendJSON(conn, Message{Type: TypeError, Error: reason})
}
