package server

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/rKV/lib/durable"
	"github.com/ValentinKolb/rKV/lib/durable/memstore"
	"github.com/ValentinKolb/rKV/lib/durable/sqlstore"
	"github.com/ValentinKolb/rKV/lib/replog"
	"github.com/ValentinKolb/rKV/lib/replog/kafkalog"
	"github.com/ValentinKolb/rKV/lib/replog/memlog"
	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/ValentinKolb/rKV/rpc/common"
)

// configError wraps a backend setup error as a configuration failure
func configError(what string, err error) error {
	return store.NewError(store.RetCConfigurationFailure, fmt.Sprintf("%s: %v", what, err))
}

// openLog creates the replication log selected by config.Log.Backend
func openLog(ctx context.Context, config common.ServerConfig) (replog.ILog, error) {
	switch config.Log.Backend {
	case common.LogBackendMemory, "":
		Logger.Infof("using the in-process replication log, records are not shared with other processes")
		return memlog.NewBroker(), nil
	case common.LogBackendKafka:
		kc := kafkalog.DefaultConfig()
		if len(config.Log.Brokers) > 0 {
			kc.Brokers = config.Log.Brokers
		}
		if config.Log.Topic != "" {
			kc.Topic = config.Log.Topic
		}
		if config.Log.Acks != "" {
			kc.Acks = config.Log.Acks
		}
		if timeout := config.Timeout(); timeout > 0 {
			kc.DialTimeout = timeout
		}
		l, err := kafkalog.NewKafkaLog(ctx, kc)
		if err != nil {
			return nil, configError("opening kafka log", err)
		}
		return l, nil
	default:
		return nil, configError("opening log", fmt.Errorf("unknown log backend %q", config.Log.Backend))
	}
}

// openDurable creates the durable store selected by config.Durable.Backend
func openDurable(ctx context.Context, config common.ServerConfig) (durable.IDurableStore, error) {
	switch config.Durable.Backend {
	case common.DurableBackendMemory, "":
		Logger.Infof("using the in-memory durable store, data is lost on restart")
		return memstore.NewMemStore(), nil
	case common.DurableBackendPostgres, common.DurableBackendMySQL:
		s, err := sqlstore.NewSQLStore(ctx, sqlstore.Config{
			Dialect:      config.Durable.Backend,
			DSN:          config.Durable.DSN,
			MaxOpenConns: 16,
			MaxIdleConns: 4,
		})
		if err != nil {
			return nil, configError("opening "+config.Durable.Backend, err)
		}
		return s, nil
	case common.DurableBackendRocksDB:
		s, err := openRocksDB(config.Durable.DataDir)
		if err != nil {
			return nil, configError("opening rocksdb", err)
		}
		return s, nil
	default:
		return nil, configError("opening durable store", fmt.Errorf("unknown durable backend %q", config.Durable.Backend))
	}
}
