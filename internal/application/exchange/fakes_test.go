package exchange_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
)

// memDB es el almacén en memoria compartido por los repositorios falsos.
// Replica la semántica que importa del almacén real: el catálogo de estados
// (dominio + nombre → id) y los UPDATE condicionados al estado esperado.
type memDB struct {
	mu sync.Mutex

	hospitales map[string]*entity.Hospital
	meds       map[string]*entity.Medication
	pubs       map[string]*entity.Publication
	dons       map[string]*entity.Donation
	reqs       map[string]*entity.Request
	envs       map[string]*entity.Shipment
	pagos      map[string]*entity.Payment
	notifs     map[string]*entity.Notification

	estadoIDs     map[string]int // "dominio/nombre" → id
	estadoNombres map[int]string // id → nombre
}

func newMemDB() *memDB {
	db := &memDB{
		hospitales:    map[string]*entity.Hospital{},
		meds:          map[string]*entity.Medication{},
		pubs:          map[string]*entity.Publication{},
		dons:          map[string]*entity.Donation{},
		reqs:          map[string]*entity.Request{},
		envs:          map[string]*entity.Shipment{},
		pagos:         map[string]*entity.Payment{},
		notifs:        map[string]*entity.Notification{},
		estadoIDs:     map[string]int{},
		estadoNombres: map[int]string{},
	}
	// Mismo catálogo que la migración inicial.
	id := 0
	seed := func(dominio string, nombres ...string) {
		for _, n := range nombres {
			id++
			db.estadoIDs[dominio+"/"+n] = id
			db.estadoNombres[id] = n
		}
	}
	seed(entity.EstadoDomainPublicacion,
		entity.PublicationEstadoDisponible, entity.PublicationEstadoSolicitado, entity.PublicationEstadoConcretado)
	seed(entity.EstadoDomainDonacion,
		entity.DonationEstadoDisponible, entity.DonationEstadoSolicitado, entity.DonationEstadoCompletado, entity.DonationEstadoCancelado)
	seed(entity.EstadoDomainSolicitud,
		entity.RequestEstadoPendiente, entity.RequestEstadoAceptada, entity.RequestEstadoRechazada)
	seed(entity.EstadoDomainEnvio,
		entity.ShipmentEstadoEmpaque, entity.ShipmentEstadoEnTransito, entity.ShipmentEstadoDistribucion, entity.ShipmentEstadoEntregado)
	seed("pago", entity.PaymentEstadoCompletado)
	return db
}

// estadoID resuelve el id de catálogo; ausente es error de configuración.
func (db *memDB) estadoID(dominio, nombre string) (int, error) {
	id, ok := db.estadoIDs[dominio+"/"+nombre]
	if !ok {
		return 0, domain.ErrConfigMissing
	}
	return id, nil
}

// transition aplica la semántica del UPDATE condicionado: si el estado actual
// (por nombre, dentro del dominio) no coincide con el esperado, la fila existe
// pero la carrera se perdió.
func (db *memDB) transition(dominio, actual string, expectedID, newID int) (string, error) {
	curID, err := db.estadoID(dominio, actual)
	if err != nil {
		return "", err
	}
	if curID != expectedID {
		return "", domain.ErrInvalidState
	}
	nombre, ok := db.estadoNombres[newID]
	if !ok {
		return "", domain.ErrConfigMissing
	}
	return nombre, nil
}

// snapshot / restore dan la semántica de rollback del TxRunner falso: las
// entidades mutables se copian por valor antes de correr el callback.
type memSnapshot struct {
	pubs   map[string]entity.Publication
	dons   map[string]entity.Donation
	reqs   map[string]entity.Request
	envs   map[string]entity.Shipment
	pagos  map[string]entity.Payment
	notifs map[string]entity.Notification
}

func (db *memDB) snapshot() memSnapshot {
	s := memSnapshot{
		pubs:   map[string]entity.Publication{},
		dons:   map[string]entity.Donation{},
		reqs:   map[string]entity.Request{},
		envs:   map[string]entity.Shipment{},
		pagos:  map[string]entity.Payment{},
		notifs: map[string]entity.Notification{},
	}
	for k, v := range db.pubs {
		s.pubs[k] = *v
	}
	for k, v := range db.dons {
		s.dons[k] = *v
	}
	for k, v := range db.reqs {
		s.reqs[k] = *v
	}
	for k, v := range db.envs {
		s.envs[k] = *v
	}
	for k, v := range db.pagos {
		s.pagos[k] = *v
	}
	for k, v := range db.notifs {
		s.notifs[k] = *v
	}
	return s
}

func (db *memDB) restore(s memSnapshot) {
	db.pubs = map[string]*entity.Publication{}
	for k := range s.pubs {
		v := s.pubs[k]
		db.pubs[k] = &v
	}
	db.dons = map[string]*entity.Donation{}
	for k := range s.dons {
		v := s.dons[k]
		db.dons[k] = &v
	}
	db.reqs = map[string]*entity.Request{}
	for k := range s.reqs {
		v := s.reqs[k]
		db.reqs[k] = &v
	}
	db.envs = map[string]*entity.Shipment{}
	for k := range s.envs {
		v := s.envs[k]
		db.envs[k] = &v
	}
	db.pagos = map[string]*entity.Payment{}
	for k := range s.pagos {
		v := s.pagos[k]
		db.pagos[k] = &v
	}
	db.notifs = map[string]*entity.Notification{}
	for k := range s.notifs {
		v := s.notifs[k]
		db.notifs[k] = &v
	}
}

// lockIf toma el mutex solo para repositorios usados fuera de una transacción;
// dentro del callback el mutex ya lo sostiene el TxRunner.
func (db *memDB) lockIf(outer bool) func() {
	if !outer {
		return func() {}
	}
	db.mu.Lock()
	return db.mu.Unlock
}

// fakeTxRunner serializa las transacciones con el mutex del almacén y revierte
// al snapshot si el callback falla. Con eso las pruebas de carrera obtienen la
// garantía real: exactamente un ganador por UPDATE condicionado.
type fakeTxRunner struct {
	db *memDB
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(r exchange.TxRepos) error) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	snap := t.db.snapshot()
	if err := fn(t.db.repos(false)); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

func (db *memDB) repos(outer bool) exchange.TxRepos {
	return exchange.TxRepos{
		Publications:  &fakePubRepo{db: db, outer: outer},
		Donations:     &fakeDonRepo{db: db, outer: outer},
		Requests:      &fakeReqRepo{db: db, outer: outer},
		Shipments:     &fakeEnvRepo{db: db, outer: outer},
		Payments:      &fakePagoRepo{db: db, outer: outer},
		Notifications: &fakeNotifRepo{db: db, outer: outer},
		Estados:       &fakeEstadoRepo{db: db, outer: outer},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios falsos
// ──────────────────────────────────────────────────────────────────────────────

type fakeHospitalRepo struct {
	db *memDB
}

func (f *fakeHospitalRepo) GetByID(id string) (*entity.Hospital, error) {
	defer f.db.lockIf(true)()
	h, ok := f.db.hospitales[id]
	if !ok {
		return nil, nil
	}
	copia := *h
	return &copia, nil
}

func (f *fakeHospitalRepo) Exists(id string) (bool, error) {
	defer f.db.lockIf(true)()
	_, ok := f.db.hospitales[id]
	return ok, nil
}

func (f *fakeHospitalRepo) IsActive(id string) (bool, error) {
	defer f.db.lockIf(true)()
	h, ok := f.db.hospitales[id]
	return ok && h.Activo, nil
}

func (f *fakeHospitalRepo) List(_, _ int) ([]*entity.Hospital, error) {
	defer f.db.lockIf(true)()
	out := make([]*entity.Hospital, 0, len(f.db.hospitales))
	for _, h := range f.db.hospitales {
		copia := *h
		out = append(out, &copia)
	}
	return out, nil
}

type fakeMedRepo struct {
	db *memDB
}

func (f *fakeMedRepo) GetByID(id string) (*entity.Medication, error) {
	defer f.db.lockIf(true)()
	m, ok := f.db.meds[id]
	if !ok {
		return nil, nil
	}
	copia := *m
	return &copia, nil
}

func (f *fakeMedRepo) GetByCUM(cum string) (*entity.Medication, error) {
	defer f.db.lockIf(true)()
	for _, m := range f.db.meds {
		if m.CUM == cum {
			copia := *m
			return &copia, nil
		}
	}
	return nil, nil
}

func (f *fakeMedRepo) List(_, _ int) ([]*entity.Medication, error) {
	defer f.db.lockIf(true)()
	out := make([]*entity.Medication, 0, len(f.db.meds))
	for _, m := range f.db.meds {
		copia := *m
		out = append(out, &copia)
	}
	return out, nil
}

type fakeEstadoRepo struct {
	db    *memDB
	outer bool
}

func (f *fakeEstadoRepo) IDByName(dominio, nombre string) (int, error) {
	defer f.db.lockIf(f.outer)()
	return f.db.estadoID(dominio, nombre)
}

type fakePubRepo struct {
	db    *memDB
	outer bool
}

func (f *fakePubRepo) Create(pub *entity.Publication) error {
	defer f.db.lockIf(f.outer)()
	copia := *pub
	f.db.pubs[pub.ID] = &copia
	return nil
}

func (f *fakePubRepo) GetByID(id string) (*entity.Publication, error) {
	defer f.db.lockIf(f.outer)()
	pub, ok := f.db.pubs[id]
	if !ok {
		return nil, nil
	}
	copia := *pub
	return &copia, nil
}

func (f *fakePubRepo) List(estado string, _, _ int) ([]*entity.Publication, error) {
	defer f.db.lockIf(f.outer)()
	var out []*entity.Publication
	for _, p := range f.db.pubs {
		if estado == "" || p.Estado == estado {
			copia := *p
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (f *fakePubRepo) ListByHospital(hospitalID string, _, _ int) ([]*entity.Publication, error) {
	defer f.db.lockIf(f.outer)()
	var out []*entity.Publication
	for _, p := range f.db.pubs {
		if p.HospitalID == hospitalID {
			copia := *p
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (f *fakePubRepo) UpdateEstadoIf(id string, expectedID, newID int) error {
	defer f.db.lockIf(f.outer)()
	pub, ok := f.db.pubs[id]
	if !ok {
		return domain.ErrNotFound
	}
	nuevo, err := f.db.transition(entity.EstadoDomainPublicacion, pub.Estado, expectedID, newID)
	if err != nil {
		return err
	}
	pub.Estado = nuevo
	pub.UpdatedAt = time.Now()
	return nil
}

type fakeDonRepo struct {
	db    *memDB
	outer bool
}

func (f *fakeDonRepo) Create(don *entity.Donation) error {
	defer f.db.lockIf(f.outer)()
	copia := *don
	f.db.dons[don.ID] = &copia
	return nil
}

func (f *fakeDonRepo) GetByID(id string) (*entity.Donation, error) {
	defer f.db.lockIf(f.outer)()
	don, ok := f.db.dons[id]
	if !ok {
		return nil, nil
	}
	copia := *don
	return &copia, nil
}

func (f *fakeDonRepo) List(estado string, _, _ int) ([]*entity.Donation, error) {
	defer f.db.lockIf(f.outer)()
	var out []*entity.Donation
	for _, d := range f.db.dons {
		if estado == "" || d.Estado == estado {
			copia := *d
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (f *fakeDonRepo) ListByHospital(hospitalID string, _, _ int) ([]*entity.Donation, error) {
	defer f.db.lockIf(f.outer)()
	var out []*entity.Donation
	for _, d := range f.db.dons {
		if d.HospitalID == hospitalID {
			copia := *d
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (f *fakeDonRepo) ClaimIf(id string, expectedID, newID int, hospitalOrigenID string) error {
	defer f.db.lockIf(f.outer)()
	don, ok := f.db.dons[id]
	if !ok {
		return domain.ErrNotFound
	}
	nuevo, err := f.db.transition(entity.EstadoDomainDonacion, don.Estado, expectedID, newID)
	if err != nil {
		return err
	}
	don.Estado = nuevo
	don.HospitalOrigenID = &hospitalOrigenID
	don.UpdatedAt = time.Now()
	return nil
}

func (f *fakeDonRepo) UpdateEstadoIf(id string, expectedID, newID int) error {
	defer f.db.lockIf(f.outer)()
	don, ok := f.db.dons[id]
	if !ok {
		return domain.ErrNotFound
	}
	nuevo, err := f.db.transition(entity.EstadoDomainDonacion, don.Estado, expectedID, newID)
	if err != nil {
		return err
	}
	don.Estado = nuevo
	don.UpdatedAt = time.Now()
	return nil
}

type fakeReqRepo struct {
	db    *memDB
	outer bool
}

func (f *fakeReqRepo) Create(req *entity.Request) error {
	defer f.db.lockIf(f.outer)()
	copia := *req
	f.db.reqs[req.ID] = &copia
	return nil
}

func (f *fakeReqRepo) GetByID(id string) (*entity.Request, error) {
	defer f.db.lockIf(f.outer)()
	req, ok := f.db.reqs[id]
	if !ok {
		return nil, nil
	}
	copia := *req
	return &copia, nil
}

func (f *fakeReqRepo) ListByPublication(publicationID string) ([]*entity.Request, error) {
	defer f.db.lockIf(f.outer)()
	var out []*entity.Request
	for _, r := range f.db.reqs {
		if r.PublicationID == publicationID {
			copia := *r
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (f *fakeReqRepo) ListByHospital(hospitalID string, _, _ int) ([]*entity.Request, error) {
	defer f.db.lockIf(f.outer)()
	var out []*entity.Request
	for _, r := range f.db.reqs {
		if r.HospitalID == hospitalID {
			copia := *r
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (f *fakeReqRepo) DecideIf(id string, expectedID, newID int) error {
	defer f.db.lockIf(f.outer)()
	req, ok := f.db.reqs[id]
	if !ok {
		return domain.ErrNotFound
	}
	nuevo, err := f.db.transition(entity.EstadoDomainSolicitud, req.Estado, expectedID, newID)
	if err != nil {
		return err
	}
	req.Estado = nuevo
	req.UpdatedAt = time.Now()
	return nil
}

func (f *fakeReqRepo) UpdateHospitalOrigen(id, hospitalID string) error {
	defer f.db.lockIf(f.outer)()
	req, ok := f.db.reqs[id]
	if !ok {
		return domain.ErrNotFound
	}
	req.HospitalOrigenID = &hospitalID
	req.UpdatedAt = time.Now()
	return nil
}

type fakeEnvRepo struct {
	db    *memDB
	outer bool
}

func (f *fakeEnvRepo) Create(env *entity.Shipment) error {
	defer f.db.lockIf(f.outer)()
	copia := *env
	f.db.envs[env.ID] = &copia
	return nil
}

func (f *fakeEnvRepo) GetByID(id string) (*entity.Shipment, error) {
	defer f.db.lockIf(f.outer)()
	env, ok := f.db.envs[id]
	if !ok {
		return nil, nil
	}
	copia := *env
	return &copia, nil
}

func (f *fakeEnvRepo) GetBySource(sourceType, sourceID string) (*entity.Shipment, error) {
	defer f.db.lockIf(f.outer)()
	for _, e := range f.db.envs {
		if e.SourceType == sourceType && e.SourceID == sourceID {
			copia := *e
			return &copia, nil
		}
	}
	return nil, nil
}

func (f *fakeEnvRepo) AdvanceIf(id string, expectedID, newID int, pin *string, fechaEntrega *time.Time) error {
	defer f.db.lockIf(f.outer)()
	env, ok := f.db.envs[id]
	if !ok {
		return domain.ErrNotFound
	}
	nuevo, err := f.db.transition(entity.EstadoDomainEnvio, env.Estado, expectedID, newID)
	if err != nil {
		return err
	}
	env.Estado = nuevo
	if pin != nil {
		env.PinEntrega = pin
	}
	if fechaEntrega != nil {
		env.FechaEntrega = fechaEntrega
	}
	env.UpdatedAt = time.Now()
	return nil
}

type fakePagoRepo struct {
	db    *memDB
	outer bool
}

func (f *fakePagoRepo) Create(pago *entity.Payment) error {
	defer f.db.lockIf(f.outer)()
	copia := *pago
	f.db.pagos[pago.ID] = &copia
	return nil
}

func (f *fakePagoRepo) GetByID(id string) (*entity.Payment, error) {
	defer f.db.lockIf(f.outer)()
	p, ok := f.db.pagos[id]
	if !ok {
		return nil, nil
	}
	copia := *p
	return &copia, nil
}

func (f *fakePagoRepo) GetByRequestID(requestID string) (*entity.Payment, error) {
	defer f.db.lockIf(f.outer)()
	for _, p := range f.db.pagos {
		if p.RequestID == requestID {
			copia := *p
			return &copia, nil
		}
	}
	return nil, nil
}

type fakeNotifRepo struct {
	db    *memDB
	outer bool
}

func (f *fakeNotifRepo) Create(n *entity.Notification) error {
	defer f.db.lockIf(f.outer)()
	copia := *n
	f.db.notifs[n.ID] = &copia
	return nil
}

func (f *fakeNotifRepo) GetByID(id string) (*entity.Notification, error) {
	defer f.db.lockIf(f.outer)()
	n, ok := f.db.notifs[id]
	if !ok {
		return nil, nil
	}
	copia := *n
	return &copia, nil
}

func (f *fakeNotifRepo) ListByHospital(hospitalID string, soloNoLeidas bool, _, _ int) ([]*entity.Notification, error) {
	defer f.db.lockIf(f.outer)()
	var out []*entity.Notification
	for _, n := range f.db.notifs {
		if n.HospitalID != hospitalID {
			continue
		}
		if soloNoLeidas && n.Leida {
			continue
		}
		copia := *n
		out = append(out, &copia)
	}
	return out, nil
}

func (f *fakeNotifRepo) MarkRead(id, hospitalID string) error {
	defer f.db.lockIf(f.outer)()
	n, ok := f.db.notifs[id]
	if !ok || n.HospitalID != hospitalID {
		return domain.ErrNotFound
	}
	n.Leida = true
	return nil
}

func (f *fakeNotifRepo) CountUnread(hospitalID string) (int, error) {
	defer f.db.lockIf(f.outer)()
	count := 0
	for _, n := range f.db.notifs {
		if n.HospitalID == hospitalID && !n.Leida {
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Puertos falsos: broadcaster, acta, remisión
// ──────────────────────────────────────────────────────────────────────────────

// fakeBroadcaster acumula los eventos difundidos para poder afirmarlos.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []entity.NotificationEvent
}

func (b *fakeBroadcaster) Publish(_ string, ev entity.NotificationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *fakeBroadcaster) Events() []entity.NotificationEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entity.NotificationEvent, len(b.events))
	copy(out, b.events)
	return out
}

func (b *fakeBroadcaster) EventsFor(hospitalID string) []entity.NotificationEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []entity.NotificationEvent
	for _, ev := range b.events {
		if ev.HospitalID == hospitalID {
			out = append(out, ev)
		}
	}
	return out
}

type fakeActaPDF struct {
	lastData exchange.ActaEntregaData
}

func (g *fakeActaPDF) GenerateActaPDF(_ context.Context, data exchange.ActaEntregaData) ([]byte, error) {
	g.lastData = data
	return []byte("%PDF-1.7 acta"), nil
}

type fakeRemision struct {
	lastData exchange.RemisionData
}

func (b *fakeRemision) Build(data exchange.RemisionData) ([]byte, string, error) {
	b.lastData = data
	return []byte("<Remision/>"), "digest-remision", nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de prueba y semillas
// ──────────────────────────────────────────────────────────────────────────────

const (
	hospitalNorte   = "hosp-norte"   // activo
	hospitalSur     = "hosp-sur"     // activo
	hospitalCentro  = "hosp-centro"  // activo
	hospitalCerrado = "hosp-cerrado" // inactivo

	medAmoxicilina = "med-amoxicilina"
)

type testEnv struct {
	db  *memDB
	uc  *exchange.UseCase
	bc  *fakeBroadcaster
	pdf *fakeActaPDF
	xml *fakeRemision
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newMemDB()
	for _, h := range []*entity.Hospital{
		{ID: hospitalNorte, Nombre: "Hospital del Norte", NIT: "900111222-1", Ciudad: "Bogotá", Activo: true},
		{ID: hospitalSur, Nombre: "Hospital del Sur", NIT: "900333444-5", Ciudad: "Cali", Activo: true},
		{ID: hospitalCentro, Nombre: "Hospital Central", NIT: "900555666-9", Ciudad: "Medellín", Activo: true},
		{ID: hospitalCerrado, Nombre: "Hospital Clausurado", NIT: "900777888-3", Ciudad: "Pasto", Activo: false},
	} {
		db.hospitales[h.ID] = h
	}
	db.meds[medAmoxicilina] = &entity.Medication{
		ID:            medAmoxicilina,
		CUM:           "19901234-1",
		Nombre:        "Amoxicilina",
		Forma:         "tableta",
		Concentracion: "500 mg",
	}

	bc := &fakeBroadcaster{}
	pdf := &fakeActaPDF{}
	xml := &fakeRemision{}
	outer := db.repos(true)
	uc := exchange.NewUseCase(
		&fakeTxRunner{db: db},
		&fakeHospitalRepo{db: db},
		&fakeMedRepo{db: db},
		outer.Publications,
		outer.Donations,
		outer.Requests,
		outer.Shipments,
		bc, pdf, xml,
	)
	return &testEnv{db: db, uc: uc, bc: bc, pdf: pdf, xml: xml}
}

// seedPublication inserta una publicación directamente en el almacén.
func (e *testEnv) seedPublication(t *testing.T, hospitalID, estado string) *entity.Publication {
	t.Helper()
	now := time.Now()
	pub := &entity.Publication{
		ID:               uuid.New().String(),
		HospitalID:       hospitalID,
		MedicationID:     medAmoxicilina,
		Cantidad:         decimal.NewFromInt(40),
		Unidad:           "cajas",
		FechaVencimiento: now.AddDate(1, 0, 0),
		Estado:           estado,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	e.db.mu.Lock()
	e.db.pubs[pub.ID] = pub
	e.db.mu.Unlock()
	return pub
}

// seedDonation inserta una donación directamente en el almacén.
func (e *testEnv) seedDonation(t *testing.T, hospitalID, estado string, origenID *string) *entity.Donation {
	t.Helper()
	now := time.Now()
	don := &entity.Donation{
		ID:               uuid.New().String(),
		HospitalID:       hospitalID,
		HospitalOrigenID: origenID,
		MedicationID:     medAmoxicilina,
		Cantidad:         decimal.NewFromInt(15),
		Unidad:           "cajas",
		FechaVencimiento: now.AddDate(0, 6, 0),
		Estado:           estado,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	e.db.mu.Lock()
	e.db.dons[don.ID] = don
	e.db.mu.Unlock()
	return don
}

// seedRequest inserta una solicitud de compra directamente en el almacén.
func (e *testEnv) seedRequest(t *testing.T, hospitalID string, pub *entity.Publication, estado string) *entity.Request {
	t.Helper()
	now := time.Now()
	precio := decimal.NewFromInt(250000)
	req := &entity.Request{
		ID:                uuid.New().String(),
		HospitalID:        hospitalID,
		HospitalDestinoID: pub.HospitalID,
		PublicationID:     pub.ID,
		Tipo:              entity.RequestTipoCompra,
		PrecioPropuesto:   &precio,
		Estado:            estado,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	e.db.mu.Lock()
	e.db.reqs[req.ID] = req
	e.db.mu.Unlock()
	return req
}

// pub / don / req / env leen el estado actual del almacén.
func (e *testEnv) pub(t *testing.T, id string) entity.Publication {
	t.Helper()
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	p, ok := e.db.pubs[id]
	require.True(t, ok, "publicación %s no existe", id)
	return *p
}

func (e *testEnv) don(t *testing.T, id string) entity.Donation {
	t.Helper()
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	d, ok := e.db.dons[id]
	require.True(t, ok, "donación %s no existe", id)
	return *d
}

func (e *testEnv) req(t *testing.T, id string) entity.Request {
	t.Helper()
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	r, ok := e.db.reqs[id]
	require.True(t, ok, "solicitud %s no existe", id)
	return *r
}

func (e *testEnv) env(t *testing.T, id string) entity.Shipment {
	t.Helper()
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	s, ok := e.db.envs[id]
	require.True(t, ok, "envío %s no existe", id)
	return *s
}

// notifsFor lee las notificaciones durables del hospital.
func (e *testEnv) notifsFor(hospitalID string) []entity.Notification {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	var out []entity.Notification
	for _, n := range e.db.notifs {
		if n.HospitalID == hospitalID {
			out = append(out, *n)
		}
	}
	return out
}
