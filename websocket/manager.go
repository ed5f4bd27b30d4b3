package websocket

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StatusMessage отправляется подключенным клиентам при изменении
// состояния ETL процесса
type StatusMessage struct {
	Type string            `json:"type"`
	Run  *models.ETLRunLog `json:"run"`
	Time time.Time         `json:"time"`
}

// Manager рассылает состояние ETL процесса подключенным клиентам.
// Состояние читается из журнала запусков в OLAP базе.
type Manager struct {
	db      *sql.DB
	repo    models.ETLLogRepository
	clients map[*Client]bool
	mu      sync.Mutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	pollInterval time.Duration
	lastRunID    string
	lastStatus   string
}

// NewManager создает новый менеджер мониторинга ETL
func NewManager(db *sql.DB, pollInterval time.Duration) *Manager {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &Manager{
		db:           db,
		repo:         models.NewMySQLETLLogRepository(db),
		clients:      make(map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		broadcast:    make(chan []byte, 16),
		pollInterval: pollInterval,
	}
}

// Run запускает цикл обработки подключений и опрос журнала запусков
func (m *Manager) Run() {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client] = true
			m.mu.Unlock()
			log.Printf("✅ Клиент мониторинга подключен (всего: %d)", m.clientCount())

			// Новому клиенту сразу отправляем последнее известное состояние
			if run, err := m.repo.GetLastSuccessfulRun(); err == nil && run != nil {
				if payload, err := json.Marshal(StatusMessage{Type: "run_status", Run: run, Time: time.Now()}); err == nil {
					client.send <- payload
				}
			}

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.send)
			}
			m.mu.Unlock()
			log.Printf("⚠️ Клиент мониторинга отключен (всего: %d)", m.clientCount())

		case message := <-m.broadcast:
			m.mu.Lock()
			for client := range m.clients {
				select {
				case client.send <- message:
				default:
					delete(m.clients, client)
					close(client.send)
				}
			}
			m.mu.Unlock()

		case <-ticker.C:
			m.pollRuns()
		}
	}
}

func (m *Manager) clientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// pollRuns проверяет журнал запусков и рассылает изменения состояния
func (m *Manager) pollRuns() {
	run, err := m.latestRun()
	if err != nil {
		log.Printf("❌ Ошибка при опросе журнала запусков: %v", err)
		return
	}
	if run == nil {
		return
	}
	if run.ID == m.lastRunID && run.Status == m.lastStatus {
		return
	}
	m.lastRunID = run.ID
	m.lastStatus = run.Status

	payload, err := json.Marshal(StatusMessage{Type: "run_status", Run: run, Time: time.Now()})
	if err != nil {
		log.Printf("❌ Ошибка при кодировании состояния запуска: %v", err)
		return
	}
	m.broadcast <- payload
}

// latestRun возвращает последний запуск ETL независимо от статуса
func (m *Manager) latestRun() (*models.ETLRunLog, error) {
	row := m.db.QueryRow(`
		SELECT id, start_time, IFNULL(end_time, start_time), status,
			contracts_processed, dimensions_built, facts_built,
			validation_errors, validation_warnings,
			IFNULL(error_message, ''), IFNULL(execution_time_seconds, 0)
		FROM etl_runs
		ORDER BY start_time DESC
		LIMIT 1
	`)

	var run models.ETLRunLog
	err := row.Scan(
		&run.ID,
		&run.StartTime,
		&run.EndTime,
		&run.Status,
		&run.ContractsProcessed,
		&run.DimensionsBuilt,
		&run.FactsBuilt,
		&run.ValidationErrors,
		&run.ValidationWarnings,
		&run.ErrorMessage,
		&run.ExecutionTimeSeconds,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// HandleConnections обрабатывает входящие WebSocket подключения
func (m *Manager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Ошибка при обновлении соединения до WebSocket: %v", err)
		return
	}

	client := &Client{
		manager: m,
		conn:    conn,
		send:    make(chan []byte, 8),
	}
	m.register <- client

	go client.writePump()
	go client.readPump()
}
