// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/config"
	"github.com/LilVoxy/dubai-rent-analytics/routes"
	"github.com/LilVoxy/dubai-rent-analytics/websocket"
	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
)

func main() {
	fmt.Println("Запуск сервера отчетов...")

	// Подключение к OLAP базе
	etlConfig := config.GetConfig()
	connections, err := config.ConnectDatabases(etlConfig)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к базе данных: %v", err)
	}
	db := connections.OLAPDB

	// Менеджер мониторинга ETL по WebSocket
	wsManager := websocket.NewManager(db, 10*time.Second)
	go wsManager.Run()

	// Маршрутизатор и обработчики
	router := mux.NewRouter()
	routes.SetupRoutes(router, db, wsManager)

	addr := ":8080"
	if v := os.Getenv("RENT_API_ADDR"); v != "" {
		addr = v
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запускаем сервер в отдельной горутине
	go func() {
		log.Printf("✅ Сервер отчетов запущен на http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Ошибка запуска сервера: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("⚠️ Получен сигнал завершения, закрываем соединения...")

	if err := db.Close(); err != nil {
		log.Printf("❌ Ошибка закрытия соединения с БД: %v", err)
	} else {
		log.Println("✅ Соединение с БД закрыто")
	}

	log.Println("👋 Сервер остановлен")
}
