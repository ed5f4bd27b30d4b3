package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// DBConnections содержит подключения к базам данных
type DBConnections struct {
	OLAPDB *sql.DB
}

// ConnectDatabases устанавливает подключение к целевой OLAP базе данных
func ConnectDatabases(config ETLConfig) (*DBConnections, error) {
	var connections DBConnections
	var err error

	olapDSN := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		config.OLAPConfig.User,
		config.OLAPConfig.Password,
		config.OLAPConfig.Host,
		config.OLAPConfig.Port,
		config.OLAPConfig.DBName,
	)

	connections.OLAPDB, err = sql.Open(config.OLAPConfig.Driver, olapDSN)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к OLAP базе данных: %w", err)
	}

	// Настройка параметров подключения
	connections.OLAPDB.SetMaxOpenConns(10)
	connections.OLAPDB.SetMaxIdleConns(5)
	connections.OLAPDB.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	if err := connections.OLAPDB.Ping(); err != nil {
		connections.OLAPDB.Close()
		return nil, fmt.Errorf("не удалось установить соединение с OLAP базой данных: %w", err)
	}

	log.Println("Успешное подключение к OLAP базе данных")
	return &connections, nil
}

// CloseDatabases закрывает подключения к базам данных
func CloseDatabases(connections *DBConnections) {
	if connections.OLAPDB != nil {
		if err := connections.OLAPDB.Close(); err != nil {
			log.Printf("Ошибка при закрытии соединения с OLAP базой данных: %v", err)
		}
	}

	log.Println("Соединение с базой данных закрыто")
}
