package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/pkg/logger"
)

// ChangeChannel is the LISTEN/NOTIFY channel carrying changed table names.
const ChangeChannel = "fabstock_changes"

const notifyFunction = `
CREATE OR REPLACE FUNCTION fabstock_notify_change() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('` + ChangeChannel + `', TG_TABLE_NAME);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`

// InstallChangeTriggers makes every write to a collection table emit a notification.
func InstallChangeTriggers(db *gorm.DB) error {
	if err := db.Exec(notifyFunction).Error; err != nil {
		return fmt.Errorf("failed to create notify function: %w", err)
	}
	for _, c := range domain.Collections {
		table := c.Table()
		stmts := []string{
			fmt.Sprintf(`DROP TRIGGER IF EXISTS fabstock_notify ON %s`, pq.QuoteIdentifier(table)),
			fmt.Sprintf(`CREATE TRIGGER fabstock_notify AFTER INSERT OR UPDATE OR DELETE ON %s
				FOR EACH STATEMENT EXECUTE FUNCTION fabstock_notify_change()`, pq.QuoteIdentifier(table)),
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to install trigger on %s: %w", table, err)
			}
		}
	}
	return nil
}

// PgNotifier receives table changes through PostgreSQL LISTEN/NOTIFY.
type PgNotifier struct {
	*Hub
	listener *pq.Listener
	done     chan struct{}
}

// NewPgNotifier starts listening on ChangeChannel.
func NewPgNotifier(dsn string) (*PgNotifier, error) {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Logger.Warn().Err(err).Int("event", int(ev)).Msg("Change listener connection event")
		}
	})
	if err := listener.Listen(ChangeChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", ChangeChannel, err)
	}

	n := &PgNotifier{
		Hub:      NewHub(),
		listener: listener,
		done:     make(chan struct{}),
	}
	go n.run()

	logger.Logger.Info().Str("channel", ChangeChannel).Msg("Listening for table changes")
	return n, nil
}

func (n *PgNotifier) run() {
	ticker := time.NewTicker(90 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-n.done:
			return
		case note, ok := <-n.listener.Notify:
			if !ok {
				return
			}
			// nil after a reconnect: notifications may have been missed
			if note == nil {
				n.NotifyAll()
				continue
			}
			n.Notify(note.Extra)
		case <-ticker.C:
			go n.listener.Ping()
		}
	}
}

// Publish is a no-op: database triggers announce every write.
func (n *PgNotifier) Publish(context.Context, string) error {
	return nil
}

// Close stops listening.
func (n *PgNotifier) Close() error {
	close(n.done)
	n.Hub.Close()
	return n.listener.Close()
}
