package db

import "context"

// Shutdown returns a function that gracefully closes the database connection pool.
// Register it as an application shutdown hook:
//
//	app := quill.New(
//	    quill.WithShutdownHook(db.Shutdown(pool)),
//	)
func Shutdown(pool *Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		pool.Close()
		return nil
	}
}
