package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-dataset-sync/internal/adapter"
	"github.com/MKhiriev/go-dataset-sync/internal/cache"
	"github.com/MKhiriev/go-dataset-sync/internal/codec"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
	"github.com/MKhiriev/go-dataset-sync/models"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRemoteTimeout = 15 * time.Second

	// assumed role session name sent with every AssumeIdentity call
	roleSessionName = "web"
)

// ClientEngineDeps are the collaborators of a sync engine.
type ClientEngineDeps struct {
	Identity      adapter.IdentityProvider
	ClientFactory adapter.RecordStoreClientFactory
	Cache         *cache.Bridge
	Codec         *codec.Codec
	Logger        *logger.Logger
}

// ClientEngineOptions tune a sync engine. Zero values select defaults.
type ClientEngineOptions struct {
	// RemoteTimeout bounds every remote call. Default 15s.
	RemoteTimeout time.Duration

	// PageSize is sent as MaxResults with every listing request; zero lets
	// the server decide.
	PageSize int

	// Now is the clock stamped on pending patches. Default time.Now.
	Now func() time.Time
}

type syncEngine struct {
	identity  adapter.IdentityProvider
	newClient adapter.RecordStoreClientFactory
	cache     *cache.Bridge
	codec     *codec.Codec
	logger    *logger.Logger

	remoteTimeout time.Duration
	pageSize      int
	now           func() time.Time

	// mu guards every field below
	mu            sync.RWMutex
	datasets      models.Datasets
	journal       models.Journal
	inFlight      map[string]bool
	sessionTokens map[string]string
	region        string
	poolID        string
	creds         *models.Credentials
	client        adapter.RecordStoreClient

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewClientSyncEngine constructs an engine with empty tables. Engines share
// no state with each other.
func NewClientSyncEngine(deps ClientEngineDeps, opts ClientEngineOptions) ClientSyncEngine {
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = defaultRemoteTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Codec == nil {
		deps.Codec = codec.New(deps.Logger)
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewBridge(store.NewMemorySlotStore(), deps.Codec, deps.Logger)
	}

	return &syncEngine{
		identity:      deps.Identity,
		newClient:     deps.ClientFactory,
		cache:         deps.Cache,
		codec:         deps.Codec,
		logger:        deps.Logger,
		remoteTimeout: opts.RemoteTimeout,
		pageSize:      opts.PageSize,
		now:           opts.Now,
		datasets:      make(models.Datasets),
		journal:       make(models.Journal),
		inFlight:      make(map[string]bool),
		sessionTokens: make(map[string]string),
		locks:         make(map[string]chan struct{}),
	}
}

func (e *syncEngine) Init(ctx context.Context, params models.InitParams) error {
	e.mu.Lock()
	e.region = params.Region
	e.poolID = params.IdentityPoolID
	e.mu.Unlock()

	if params.IdentityID == "" || params.IdentityToken == "" {
		callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
		creds, err := e.identity.Unauthenticated(callCtx, params.IdentityPoolID)
		cancel()
		if err != nil {
			return e.authFailed(params, err)
		}

		e.openLocal(params.DatasetsToSync)
		e.logger.Info().
			Str("func", "syncEngine.Init").
			Str("identity_id", creds.IdentityID).
			Msg("unauthenticated identity established, skipping initial pull")
		if err = e.bind(creds); err != nil {
			return e.authFailed(params, err)
		}
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	creds, err := e.identity.AssumeIdentity(callCtx, models.AssumeIdentityRequest{
		RoleArn:          params.RoleArn,
		WebIdentityToken: params.IdentityToken,
		RoleSessionName:  roleSessionName,
	})
	cancel()
	if err != nil {
		return e.authFailed(params, err)
	}
	creds.IdentityID = params.IdentityID
	creds.Authenticated = true

	if err = e.bind(creds); err != nil {
		return e.authFailed(params, err)
	}

	return e.pullDatasets(ctx, params.DatasetsToSync)
}

func (e *syncEngine) authFailed(params models.InitParams, err error) error {
	e.logger.Err(err).
		Str("func", "syncEngine.Init").
		Bool("has_handler", params.OnAuthFailed != nil).
		Msg("failed to establish identity, the identity token might be expired")

	if params.OnAuthFailed != nil {
		params.OnAuthFailed(err)
		return nil
	}
	return fmt.Errorf("%w: %w", ErrAuthAssume, err)
}

// openLocal registers datasets that are not known yet as empty, so that
// they accept writes before their first pull.
func (e *syncEngine) openLocal(datasets []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ds := range datasets {
		if _, ok := e.datasets[ds]; !ok {
			e.datasets[ds] = []models.Record{}
		}
	}
}

// bind records creds and builds the record store client for them. The
// credentials stay established even when the client cannot be built.
func (e *syncEngine) bind(creds models.Credentials) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.creds = &creds
	e.client = nil

	client, err := e.newClient(creds)
	if err != nil {
		e.logger.Err(err).Str("func", "syncEngine.bind").Msg("failed to build record store client")
		return fmt.Errorf("bind record store client: %w", err)
	}
	e.client = client
	return nil
}

// pullDatasets pulls the full listing of every dataset concurrently and
// seeds the snapshot table with all pages.
func (e *syncEngine) pullDatasets(ctx context.Context, datasets []string) error {
	client, err := e.readyClient()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, ds := range slices.Compact(slices.Sorted(slices.Values(datasets))) {
		g.Go(func() error {
			return e.refresh(gctx, client, ds)
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	e.logger.Info().
		Str("func", "syncEngine.Init").
		Strs("datasets", datasets).
		Msg("completed initialization and initial pull")
	return nil
}

func (e *syncEngine) GetValue(dataset, key string) (any, bool, error) {
	e.mu.RLock()
	records, ok := e.datasets[dataset]
	var (
		rec   models.Record
		found bool
	)
	if ok {
		rec, found = models.FindRecord(records, key)
	}
	e.mu.RUnlock()

	if !ok {
		return nil, false, datasetError(ErrDatasetUninitialized, dataset)
	}
	if !found {
		return nil, false, nil
	}

	value, decoded := e.codec.Deserialize(rec.Value)
	return value, decoded, nil
}

func (e *syncEngine) GetValues(dataset string) (map[string]any, error) {
	e.mu.RLock()
	records, ok := e.datasets[dataset]
	records = slices.Clone(records)
	e.mu.RUnlock()

	if !ok {
		return nil, datasetError(ErrDatasetUninitialized, dataset)
	}

	values := make(map[string]any, len(records))
	for _, rec := range records {
		if value, decoded := e.codec.Deserialize(rec.Value); decoded {
			values[rec.Key] = value
		}
	}
	return values, nil
}

func (e *syncEngine) SetValue(dataset, key string, value any) {
	if err := e.setValue(dataset, key, value); err != nil {
		e.logger.Error().Err(err).
			Str("func", "syncEngine.SetValue").
			Str("dataset", dataset).
			Str("key", key).
			Msg("cannot set value, write ignored")
	}
}

func (e *syncEngine) SetValueStrict(dataset, key string, value any) error {
	return e.setValue(dataset, key, value)
}

func (e *syncEngine) setValue(dataset, key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	records, ok := e.datasets[dataset]
	if !ok {
		return datasetError(ErrDatasetUninitialized, dataset)
	}

	current, found := models.FindRecord(records, key)
	if found && e.unchanged(current, value) {
		return nil
	}

	op := models.OpReplace
	if codec.IsEmpty(value) {
		op = models.OpRemove
	}

	serialized := e.codec.Serialize(value)
	modified := e.now()

	patch := models.Patch{
		Op:                     op,
		Key:                    key,
		Value:                  serialized,
		SyncCount:              current.SyncCount,
		DeviceLastModifiedDate: &modified,
	}
	e.journal[dataset] = append(withoutPatch(e.journal[dataset], key), patch)

	e.datasets[dataset] = append(withoutRecord(records, key), models.Record{
		Key:                    key,
		Value:                  serialized,
		SyncCount:              current.SyncCount,
		DeviceLastModifiedDate: &modified,
	})

	e.logger.Debug().
		Str("func", "syncEngine.SetValue").
		Str("dataset", dataset).
		Str("key", key).
		Str("op", string(op)).
		Int64("sync_count", current.SyncCount).
		Msg("pending patch written to journal")
	return nil
}

// unchanged reports whether writing value over rec would be a no-op. A
// removed record carries an empty value, which equals any empty write.
func (e *syncEngine) unchanged(rec models.Record, value any) bool {
	decoded, ok := e.codec.Deserialize(rec.Value)
	if !ok {
		return rec.Value == "" && codec.IsEmpty(value)
	}
	return e.codec.Equal(decoded, value)
}

func (e *syncEngine) ShouldSync(dataset string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.journal[dataset]) > 0 && !e.inFlight[dataset]
}

func (e *syncEngine) Restore(ctx context.Context) {
	restored := e.cache.Restore(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if restored.Datasets != nil {
		e.datasets = restored.Datasets
	}
	if restored.Journal != nil {
		e.journal = restored.Journal
	}

	e.logger.Debug().
		Str("func", "syncEngine.Restore").
		Bool("datasets_restored", restored.Datasets != nil).
		Bool("journal_restored", restored.Journal != nil).
		Msg("state restored from cache")
}

func (e *syncEngine) Store(ctx context.Context) error {
	e.mu.RLock()
	state := cache.State{
		Datasets: cloneTable(e.datasets),
		Journal:  cloneTable(e.journal),
	}
	e.mu.RUnlock()

	return e.cache.Store(ctx, state)
}

func (e *syncEngine) Datasets() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.datasets))
	for name := range e.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *syncEngine) PendingCount(dataset string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.journal[dataset])
}

func (e *syncEngine) Credentials() (models.Credentials, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.creds == nil {
		return models.Credentials{}, false
	}
	return *e.creds, true
}

// readyClient returns the bound client, or why there is none.
func (e *syncEngine) readyClient() (adapter.RecordStoreClient, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.creds == nil {
		return nil, ErrAuthNotReady
	}
	if e.client == nil {
		return nil, ErrClientNotReady
	}
	return e.client, nil
}

// lockDataset serializes remote operations on one dataset. It gives up when
// ctx ends first.
func (e *syncEngine) lockDataset(ctx context.Context, dataset string) (func(), error) {
	e.locksMu.Lock()
	sem, ok := e.locks[dataset]
	if !ok {
		sem = make(chan struct{}, 1)
		e.locks[dataset] = sem
	}
	e.locksMu.Unlock()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *syncEngine) setInFlight(dataset string, inFlight bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if inFlight {
		e.inFlight[dataset] = true
		return
	}
	delete(e.inFlight, dataset)
}

func withoutPatch(patches []models.Patch, key string) []models.Patch {
	out := make([]models.Patch, 0, len(patches)+1)
	for _, p := range patches {
		if p.Key != key {
			out = append(out, p)
		}
	}
	return out
}

func withoutRecord(records []models.Record, key string) []models.Record {
	out := make([]models.Record, 0, len(records)+1)
	for _, r := range records {
		if r.Key != key {
			out = append(out, r)
		}
	}
	return out
}

func cloneTable[M ~map[string][]V, V any](table M) M {
	out := make(M, len(table))
	for name, rows := range table {
		out[name] = slices.Clone(rows)
	}
	return out
}
