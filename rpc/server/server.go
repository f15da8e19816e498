package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ValentinKolb/rKV/lib/cache"
	"github.com/ValentinKolb/rKV/lib/durable"
	"github.com/ValentinKolb/rKV/lib/replicator"
	"github.com/ValentinKolb/rKV/lib/replog"
	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/ValentinKolb/rKV/lib/store/rstore"
	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/ValentinKolb/rKV/rpc/serializer"
	"github.com/ValentinKolb/rKV/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// shutdownTimeout bounds the graceful shutdown of the transports
const shutdownTimeout = 10 * time.Second

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := s.Serve(ctx); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		adapter:    NewIStoreServerAdapter(),
	}
}

// RPCServer owns the backends of one process: the cache, the replication log,
// the durable store, the replicator and the transport(s) serving the store.
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	adapter    IRPCServerAdapter

	store      store.IStore
	log        replog.ILog
	durable    durable.IDurableStore
	replicator *replicator.Replicator
	metrics    *http.Server
}

// Serve initializes the backends, starts the replicator and serves requests until
// ctx is cancelled or the transport fails. On return all backends are closed.
func (s *RPCServer) Serve(ctx context.Context) error {
	Logger.Infof("Starting rKV server")
	Logger.Infof("%s", s.config.String())

	if err := s.init(ctx); err != nil {
		s.closeBackends()
		return err
	}

	s.replicator.Start(ctx)
	s.startMetricsEndpoint()

	var listenErr error
	listenDone := make(chan struct{})
	go func() {
		defer close(listenDone)
		listenErr = s.transport.Listen(s.config)
	}()

	var err error
	select {
	case <-ctx.Done():
		Logger.Infof("Shutting down")
	case <-listenDone:
		if err = listenErr; err != nil {
			Logger.Errorf("Transport failed: %v", err)
		}
	}

	s.shutdown(listenDone)
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *RPCServer) init(ctx context.Context) error {
	producer := s.config.NodeID
	if producer == "" {
		producer = uuid.NewString()
	}

	var err error
	if s.log, err = openLog(ctx, s.config); err != nil {
		return err
	}
	if s.durable, err = openDurable(ctx, s.config); err != nil {
		return err
	}

	c := cache.NewCache()
	s.store, err = rstore.NewReplicatedStore(ctx, rstore.Options{
		Cache:      c,
		Log:        s.log,
		Durable:    s.durable,
		Collection: s.config.Durable.Collection,
		Producer:   producer,
		Timeout:    s.config.Timeout(),
	})
	if err != nil {
		return err
	}

	sub, err := s.log.Subscribe(s.config.Log.GroupID)
	if err != nil {
		return configError("subscribing to the log", err)
	}
	s.replicator = replicator.New(sub, c, replicator.Options{
		PollTimeout: s.config.Log.PollTimeout(),
		IdlePause:   s.config.Log.IdlePause(),
	})

	s.registerTransportHandler()
	if registrar, ok := s.transport.(transport.IRouteRegistrar); ok {
		registrar.RegisterRoutes(restRoutes(s.store))
	}

	Logger.Infof("rKV setup completed successfully (node %s)", producer)
	return nil
}

func (s *RPCServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(req []byte) []byte {
		var msg common.Message
		var respMsg *common.Message

		// Decode the request and let the adapter handle it
		if err := s.serializer.Deserialize(req, &msg); err != nil {
			respMsg = common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
		} else {
			respMsg = s.adapter.Handle(&msg, s.store)
		}

		val, err := s.serializer.Serialize(*respMsg)
		if err != nil {
			Logger.Errorf("Failed to serialize %s response: %v", respMsg.MsgType, err)
			val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
		}
		return val
	})
}

// startMetricsEndpoint serves /metrics on a dedicated listener if configured
func (s *RPCServer) startMetricsEndpoint() {
	if s.config.MetricsEndpoint == "" {
		return
	}

	r := chi.NewRouter()
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	s.metrics = &http.Server{
		Addr:              s.config.MetricsEndpoint,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		Logger.Infof("Serving metrics on %s", s.config.MetricsEndpoint)
		if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("Metrics endpoint failed: %v", err)
		}
	}()
}

// shutdown stops the transports first, then the replicator, then closes the backends
func (s *RPCServer) shutdown(listenDone <-chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.transport.Shutdown(ctx); err != nil {
		Logger.Warningf("Transport shutdown: %v", err)
	}
	select {
	case <-listenDone:
	case <-ctx.Done():
	}
	if s.metrics != nil {
		if err := s.metrics.Shutdown(ctx); err != nil {
			Logger.Warningf("Metrics endpoint shutdown: %v", err)
		}
	}

	if s.replicator != nil {
		s.replicator.Stop()
	}
	s.closeBackends()
	Logger.Infof("Shutdown complete")
}

func (s *RPCServer) closeBackends() {
	if s.log != nil {
		if err := s.log.Close(); err != nil {
			Logger.Warningf("Closing log: %v", err)
		}
	}
	if s.durable != nil {
		if err := s.durable.Close(); err != nil {
			Logger.Warningf("Closing durable store: %v", err)
		}
	}
}
