package entity

import "time"

// LogEntry é uma linha da trilha de auditoria. Append-only, sem retenção.
type LogEntry struct {
	ID       string
	Acao     string
	Usuario  string
	Detalhes string
	DataHora time.Time
}
