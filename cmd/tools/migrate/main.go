// Command migrate creates the server-side session table used by
// SESSION_DRIVER=mysql.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const sessionsDDL = `
CREATE TABLE IF NOT EXISTS storefront_sessions (
  id CHAR(36) NOT NULL,
  user_id VARCHAR(64) NOT NULL,
  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
  last_seen_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
  PRIMARY KEY (id),
  KEY ix_storefront_sessions_user_id (user_id),
  KEY ix_storefront_sessions_last_seen_at (last_seen_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const purgeIdle = `DELETE FROM storefront_sessions WHERE last_seen_at < ?`

func main() {
	_ = godotenv.Load()

	dsn := flag.String("dsn", os.Getenv("DB_DSN"), "MySQL DSN (defaults to DB_DSN)")
	purge := flag.Bool("purge", false, "Also delete sessions idle longer than -max-age")
	maxAge := flag.Duration("max-age", 365*24*time.Hour, "Idle age after which -purge removes a session")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("DB_DSN environment variable or -dsn is required")
	}

	db, err := gorm.Open(mysql.Open(*dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Exec(sessionsDDL).Error; err != nil {
		log.Fatalf("Failed to create storefront_sessions: %v", err)
	}
	log.Println("✓ storefront_sessions table ready")

	if *purge {
		res := db.Exec(purgeIdle, time.Now().Add(-*maxAge))
		if res.Error != nil {
			log.Fatalf("Failed to purge sessions: %v", res.Error)
		}
		log.Printf("✓ %d expired sessions removed", res.RowsAffected)
	}
}
