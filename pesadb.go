package pesadb

import (
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/db"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/op"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/ps"
)

type Instance struct {
	Persistence *ps.Persistence
	Database    *op.Database
}

// Open binds an instance to a persistence layer, loading the snapshot it
// holds when one exists.
func Open(persistence *ps.Persistence) (*Instance, error) {
	database, err := op.OpenDatabase(persistence)
	if err != nil {
		return nil, err
	}

	return &Instance{
		Persistence: persistence,
		Database:    database,
	}, nil
}

func (instance *Instance) Engine() *db.Engine {
	return db.NewEngine(instance.Database)
}
