package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"erp-sync/internal/api"
	"erp-sync/internal/app"
	"erp-sync/internal/core"
	"erp-sync/internal/notify"
	"erp-sync/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// backend serves canned responses keyed by "METHOD path" and counts calls.
type backend struct {
	mu        sync.Mutex
	calls     map[string]int
	responses map[string]string
	status    map[string]int
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.calls[key]++
	body, ok := b.responses[key]
	status := b.status[key]
	b.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *backend) fail(key string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[key] = body
	b.status[key] = status
}

type fixture struct {
	svc   app.ApplicationService
	be    *backend
	notes *notify.Recorder
}

func newFixture(t *testing.T, responses map[string]string) fixture {
	t.Helper()
	be := &backend{calls: map[string]int{}, responses: responses, status: map[string]int{}}
	srv := httptest.NewServer(be)
	t.Cleanup(srv.Close)
	notes := notify.NewRecorder(50)
	client := api.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	return fixture{
		svc:   app.NewAppService(client, store.New(100), notes, zerolog.Nop()),
		be:    be,
		notes: notes,
	}
}

func (f fixture) lastNote(t *testing.T) notify.Notification {
	t.Helper()
	all := f.notes.All()
	if len(all) == 0 {
		t.Fatal("no notifications")
	}
	return all[len(all)-1]
}

func TestUpdateCustomer_FailureLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /customers": `{"data":[{"_id":"c1","name":"Bob","openingAmount":100,"paymentType":"Credit"},{"_id":"c2","name":"Ann"}]}`,
	})
	f.be.fail("PUT /customers/c1", http.StatusInternalServerError, `{"message":"database unavailable"}`)
	ctx := context.Background()

	f.svc.LoadCustomers(ctx)
	before := f.svc.Store().Customers.Items()

	_, err := f.svc.UpdateCustomer(ctx, "c1", core.Party{Name: "Robert"})
	if err == nil {
		t.Fatal("expected error")
	}
	if after := f.svc.Store().Customers.Items(); !reflect.DeepEqual(before, after) {
		t.Errorf("store changed:\nbefore %+v\nafter  %+v", before, after)
	}
	if n := f.lastNote(t); n.Level != notify.Error || n.Message != "database unavailable" {
		t.Errorf("notification = %+v", n)
	}
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	f := newFixture(t, map[string]string{"GET /customers": `[{"_id":"c1","name":"Bob"}]`})
	ctx := context.Background()
	f.svc.LoadCustomers(ctx)

	_, err := f.svc.UpdateCustomer(ctx, "c1", core.Party{Name: "Robert"})
	if !errors.Is(err, core.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
	if c, _ := f.svc.Store().Customers.Find("c1"); c.Name != "Bob" {
		t.Errorf("name = %q after failed update", c.Name)
	}
}

func TestCreateSale_NumbersAndDecrementsStock(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /products":      `[{"_id":"p1","itemName":"Paint","stock":10}]`,
		"GET /sale-invoice":  `{"data":[{"_id":"s1","invoiceNumber":"INV-0002","items":[]}]}`,
		"POST /sale-invoice": `{"data":{"_id":"s9"}}`,
	})
	ctx := context.Background()
	f.svc.LoadInventory(ctx)

	res, err := f.svc.CreateSale(ctx, core.Sale{
		Customer: core.PartyRef{Name: "Walk-in"},
		Items:    []core.LineItem{{ProductName: "Paint", Quantity: d("3"), Rate: d("10")}},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if res.Sale.InvoiceNumber != "INV-0003" || res.Sale.ID != "s9" {
		t.Errorf("keys = %q %q", res.Sale.InvoiceNumber, res.Sale.ID)
	}
	if !res.Sale.TotalNetAmount.Equal(d("30")) {
		t.Errorf("total = %s", res.Sale.TotalNetAmount)
	}
	if res.Stock.Applied != 1 {
		t.Errorf("stock result = %+v", res.Stock)
	}
	if p, _ := f.svc.Store().Inventory.Find("p1"); !p.Stock.Equal(d("7")) {
		t.Errorf("stock = %s, want 7", p.Stock)
	}
	if s, ok := f.svc.Store().Sales.Find("INV-0003"); !ok || s.ID != "s9" {
		t.Errorf("stored sale = %+v", s)
	}
}

func TestCreateSale_FailureRollsBack(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /products":     `[{"_id":"p1","itemName":"Paint","stock":10}]`,
		"GET /sale-invoice": `[]`,
	})
	f.be.fail("POST /sale-invoice", http.StatusBadRequest, `{"error":{"message":"customer required"}}`)
	ctx := context.Background()
	f.svc.LoadInventory(ctx)

	_, err := f.svc.CreateSale(ctx, core.Sale{Items: []core.LineItem{{ProductName: "Paint", Quantity: d("3")}}})
	if err == nil {
		t.Fatal("expected error")
	}
	if n := f.svc.Store().Sales.Len(); n != 0 {
		t.Errorf("sales = %d after failed create", n)
	}
	if p, _ := f.svc.Store().Inventory.Find("p1"); !p.Stock.Equal(d("10")) {
		t.Errorf("stock moved on failed create: %s", p.Stock)
	}
	if n := f.lastNote(t); n.Message != "customer required" {
		t.Errorf("notification = %+v", n)
	}
}

func TestCreateSale_EmptyIsRejectedLocally(t *testing.T) {
	f := newFixture(t, map[string]string{})
	_, err := f.svc.CreateSale(context.Background(), core.Sale{})
	if !errors.Is(err, core.ErrEmptyDocument) {
		t.Fatalf("err = %v", err)
	}
	if n := f.be.count("POST /sale-invoice"); n != 0 {
		t.Errorf("POST sent %d times", n)
	}
}

func TestUpdateSale_MissingIdentifier(t *testing.T) {
	f := newFixture(t, map[string]string{})
	_, err := f.svc.UpdateSale(context.Background(), " ", core.Sale{Items: []core.LineItem{{ProductName: "Paint", Quantity: d("1")}}})
	if !errors.Is(err, core.ErrMissingIdentifier) {
		t.Fatalf("err = %v", err)
	}
	if n := f.lastNote(t); n.Level != notify.Error {
		t.Errorf("notification = %+v", n)
	}
}

func TestCreateProduct_TemporaryIDIsNeverSent(t *testing.T) {
	f := newFixture(t, map[string]string{"POST /products": `{}`})
	ctx := context.Background()

	p, err := f.svc.CreateProduct(ctx, core.InventoryItem{ItemName: "Paint", Stock: d("4")})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if !app.IsTemporary(p.ID) {
		t.Fatalf("id = %q, want temporary key", p.ID)
	}

	if err := f.svc.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if n := f.svc.Store().Inventory.Len(); n != 0 {
		t.Errorf("inventory = %d", n)
	}
	for key := range f.be.calls {
		if key != "POST /products" {
			t.Errorf("unexpected call %s", key)
		}
	}
}

func TestDeletePurchaseOrder_FallsBackToID(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /purchaseorder":   `[{"_id":"a7","poNumber":"PO-007","items":[]}]`,
		"DELETE /purchases/a7": `{}`,
	})
	ctx := context.Background()
	f.svc.LoadPurchaseOrders(ctx)

	if err := f.svc.DeletePurchaseOrder(ctx, "PO-007"); err != nil {
		t.Fatalf("DeletePurchaseOrder: %v", err)
	}
	if f.be.count("DELETE /purchaseorder/PO-007") != 1 || f.be.count("DELETE /purchases/a7") != 1 {
		t.Errorf("calls = %v", f.be.calls)
	}
	if f.svc.Store().PurchaseOrders.Len() != 0 {
		t.Error("order still in store")
	}
}

func buyFixture(t *testing.T, extra map[string]string) fixture {
	responses := map[string]string{
		"GET /products":      `[{"_id":"p1","itemName":"Cement","stock":10}]`,
		"GET /suppliers":     `[{"_id":"s1","name":"Acme","openingAmount":1000,"paymentType":"Credit"}]`,
		"GET /purchaseorder": `[{"_id":"po1","poNumber":"PO-001","supplier":{"_id":"s1","name":"Acme"},"items":[{"productId":"p1","productName":"Cement","quantity":10,"received":10,"rate":100}]}]`,
	}
	for k, v := range extra {
		responses[k] = v
	}
	f := newFixture(t, responses)
	ctx := context.Background()
	f.svc.LoadInventory(ctx)
	f.svc.LoadSuppliers(ctx)
	f.svc.LoadPurchaseOrders(ctx)
	return f
}

func TestCreatePurchaseReturn_AppliesEffects(t *testing.T) {
	f := buyFixture(t, map[string]string{
		"GET /purchase-returns":  `[]`,
		"POST /purchase-returns": `{"_id":"r1"}`,
	})
	ctx := context.Background()

	res, err := f.svc.CreatePurchaseReturn(ctx, core.PurchaseReturn{
		Supplier:   core.PartyRef{ID: "s1"},
		LinkedPOID: "po1",
		Items:      []core.LineItem{{ProductID: "p1", ProductName: "Cement", Quantity: d("4"), Rate: d("100")}},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseReturn: %v", err)
	}
	if !res.Effect.Applied {
		t.Fatalf("effect not applied: %s", res.Effect.Message)
	}
	if res.Return.ReturnNumber != "PRET-0001" || res.Return.Supplier.Name != "Acme" {
		t.Errorf("return = %+v", res.Return)
	}

	st := f.svc.Store()
	if p, _ := st.Inventory.Find("p1"); !p.Stock.Equal(d("6")) {
		t.Errorf("stock = %s, want 6", p.Stock)
	}
	if po, _ := st.PurchaseOrders.Find("PO-001"); !po.Items[0].Received.Equal(d("6")) {
		t.Errorf("received = %s, want 6", po.Items[0].Received)
	}
	if s, _ := st.Suppliers.Find("s1"); !s.Balance().Equal(d("600")) {
		t.Errorf("supplier balance = %s, want 600", s.Balance())
	}
}

func TestCreatePurchaseReturn_RefusedEffectKeepsReturn(t *testing.T) {
	f := buyFixture(t, map[string]string{
		"GET /purchase-returns":  `[]`,
		"POST /purchase-returns": `{"_id":"r1"}`,
	})
	ctx := context.Background()

	res, err := f.svc.CreatePurchaseReturn(ctx, core.PurchaseReturn{
		Supplier: core.PartyRef{Name: "acme"},
		Items:    []core.LineItem{{ProductID: "p1", Quantity: d("25")}},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseReturn: %v", err)
	}
	if res.Effect.Applied {
		t.Fatal("expected effect to be refused")
	}
	if f.svc.Store().PurchaseReturns.Len() != 1 {
		t.Error("return was not kept")
	}
	if p, _ := f.svc.Store().Inventory.Find("p1"); !p.Stock.Equal(d("10")) {
		t.Errorf("stock = %s", p.Stock)
	}
	if n := f.lastNote(t); n.Level != notify.Info {
		t.Errorf("notification = %+v", n)
	}
}

func TestCreateGRN_ReceivesIntoLinkedOrder(t *testing.T) {
	f := buyFixture(t, map[string]string{
		"GET /grns":  `[]`,
		"POST /grns": `{"data":{"_id":"g1","grnNumber":"GRN-0001"}}`,
	})
	f.svc.Store().PurchaseOrders.Update("po1", func(po core.PurchaseOrder) core.PurchaseOrder {
		po.Items[0].Received = decimal.Zero
		return po
	})

	res, err := f.svc.CreateGRN(context.Background(), core.GRN{
		LinkedPOID: "PO-001",
		Items:      []core.LineItem{{SKU: "Cement", Quantity: d("4"), Rate: d("100")}},
	})
	if err != nil {
		t.Fatalf("CreateGRN: %v", err)
	}
	if res.Order == nil || !res.Order.Items[0].Received.Equal(d("4")) {
		t.Fatalf("order = %+v", res.Order)
	}
	if p, _ := f.svc.Store().Inventory.Find("p1"); !p.Stock.Equal(d("14")) {
		t.Errorf("stock = %s, want 14", p.Stock)
	}
	if po, _ := f.svc.Store().PurchaseOrders.Find("po1"); !po.Items[0].Received.Equal(d("4")) {
		t.Errorf("stored received = %s", po.Items[0].Received)
	}
}

func TestImportQuotation(t *testing.T) {
	quotes := `[{"_id":"q1","quotationNumber":"Quo-0001","date":"2026-02-01","customer":[{"_id":"c1","name":"Bob"}],"items":[{"productName":"Paint","quantity":2,"rate":5}],"status":"Open"}]`

	t.Run("synced", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"GET /quotations":                 quotes,
			"GET /sale-invoice":               `[]`,
			"POST /sale-invoice":              `{"_id":"s1"}`,
			"PUT /quotations/number/Quo-0001": `{}`,
		})
		res, err := f.svc.ImportQuotation(context.Background(), app.ImportQuotationRequest{QuotationNumber: "Quo-0001"})
		if err != nil {
			t.Fatalf("ImportQuotation: %v", err)
		}
		if !res.QuotationSynced {
			t.Error("quotation not synced")
		}
		if res.Sale.InvoiceNumber != "INV-0001" || res.Sale.QuotationNumber != "Quo-0001" || res.Sale.Customer.ID != "c1" {
			t.Errorf("sale = %+v", res.Sale)
		}
		q, _ := f.svc.Store().Quotations.Find("Quo-0001")
		if q.Status != core.QuotationConverted || q.ConvertedTo != "INV-0001" {
			t.Errorf("quotation = %+v", q)
		}

		_, err = f.svc.ImportQuotation(context.Background(), app.ImportQuotationRequest{QuotationNumber: "Quo-0001"})
		if !errors.Is(err, core.ErrQuotationConverted) {
			t.Errorf("second import err = %v", err)
		}
	})

	t.Run("quotation update fails", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"GET /quotations":    quotes,
			"GET /sale-invoice":  `[]`,
			"POST /sale-invoice": `{"_id":"s1"}`,
		})
		f.be.fail("PUT /quotations/number/Quo-0001", http.StatusInternalServerError, `{}`)

		res, err := f.svc.ImportQuotation(context.Background(), app.ImportQuotationRequest{QuotationNumber: "Quo-0001"})
		if err != nil {
			t.Fatalf("ImportQuotation: %v", err)
		}
		if res.QuotationSynced {
			t.Error("expected QuotationSynced=false")
		}
		if f.svc.Store().Sales.Len() != 1 {
			t.Error("sale not kept")
		}
		if q, _ := f.svc.Store().Quotations.Find("Quo-0001"); q.Status != core.QuotationOpen {
			t.Errorf("quotation status = %q, want restored Open", q.Status)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		f := newFixture(t, map[string]string{"GET /quotations": quotes})
		_, err := f.svc.ImportQuotation(context.Background(), app.ImportQuotationRequest{QuotationNumber: "Quo-0099"})
		if !errors.Is(err, core.ErrRecordNotFound) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestNextNumber_QuotationFillsGap(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /quotations": `[{"quotationNumber":"Quo-0001"},{"quotationNumber":"Quo-0003"}]`,
	})
	if got := f.svc.NextNumber(context.Background(), core.SeriesQuotation); got != "Quo-0002" {
		t.Errorf("NextNumber = %q", got)
	}
}

func TestLoadAll_FailedResourceKeepsOthers(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /products":  `[{"_id":"p1","itemName":"Paint"}]`,
		"GET /customers": `[{"_id":"c1","name":"Bob"}]`,
	})
	statuses := f.svc.LoadAll(context.Background())
	if len(statuses) != 13 {
		t.Fatalf("statuses = %d", len(statuses))
	}
	st := f.svc.Store()
	if !st.Inventory.Loaded() || st.Inventory.Len() != 1 || st.Customers.Len() != 1 {
		t.Error("successful resources not loaded")
	}
	if st.Sales.Loaded() || st.Sales.Err() == "" {
		t.Errorf("sales loaded=%v err=%q", st.Sales.Loaded(), st.Sales.Err())
	}

	if err := f.svc.Refresh(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown resource")
	}
	if err := f.svc.Refresh(context.Background(), store.ResInventory); err != nil {
		t.Fatal(err)
	}
	if n := f.be.count("GET /products"); n != 2 {
		t.Errorf("GET /products = %d, want 2", n)
	}
}

func TestProfitAndLoss(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /sale-invoice":     `[{"invoiceNumber":"INV-0001","date":"2026-03-02","items":[{"productName":"Paint","quantity":2,"rate":50}]}]`,
		"GET /purchase-invoice": `[{"invoiceNumber":"PINV-0001","date":"2026-03-01","items":[{"productName":"Paint","quantity":2,"rate":20}]}]`,
		"GET /purchase-returns": `[]`,
		"GET /expenses":         `[{"expenseNumber":"EXP-0001","date":"2026-03-05","category":"Rent","amount":15}]`,
	})
	pl, err := f.svc.ProfitAndLoss(context.Background(), app.ProfitAndLossRequest{From: "2026-03-01", To: "2026-03-31"})
	if err != nil {
		t.Fatalf("ProfitAndLoss: %v", err)
	}
	if !pl.NetProfit.Equal(d("45")) {
		t.Errorf("net profit = %s, want 45", pl.NetProfit)
	}
}

func TestSubmitLock(t *testing.T) {
	l := app.NewSubmitLock()
	release, ok := l.TryAcquire("sale")
	if !ok {
		t.Fatal("first acquire failed")
	}
	if _, ok := l.TryAcquire("sale"); ok {
		t.Error("second acquire succeeded while busy")
	}
	if _, ok := l.TryAcquire("quotation"); !ok {
		t.Error("other form blocked")
	}
	release()
	release()
	if _, ok := l.TryAcquire("sale"); !ok {
		t.Error("acquire after release failed")
	}
}

func TestCreateSale_DuplicateNumberIsRejected(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /sale-invoice":  `[{"_id":"s1","invoiceNumber":"INV-0001","customer":"Orig","items":[{"productName":"Paint","quantity":1,"rate":5}]}]`,
		"POST /sale-invoice": `{"data":{"_id":"s2"}}`,
	})
	ctx := context.Background()
	f.svc.LoadSales(ctx)
	before := f.svc.Store().Sales.Items()

	_, err := f.svc.CreateSale(ctx, core.Sale{
		InvoiceNumber: "INV-0001",
		Customer:      core.PartyRef{Name: "New"},
		Items:         []core.LineItem{{ProductName: "Screws", Quantity: d("2"), Rate: d("1")}},
	})
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
	if n := f.be.count("POST /sale-invoice"); n != 0 {
		t.Errorf("POST sent %d times", n)
	}
	if after := f.svc.Store().Sales.Items(); !reflect.DeepEqual(before, after) {
		t.Errorf("store changed:\nbefore %+v\nafter  %+v", before, after)
	}
	if n := f.lastNote(t); n.Level != notify.Error {
		t.Errorf("notification = %+v", n)
	}
}

func TestCreateSale_ReconcilesOnlyTheNewRow(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /sale-invoice":  `[{"_id":"s1","invoiceNumber":"INV-0001","items":[]}]`,
		"POST /sale-invoice": `{"data":{"_id":"s1"}}`,
	})
	ctx := context.Background()
	f.svc.LoadSales(ctx)

	res, err := f.svc.CreateSale(ctx, core.Sale{Items: []core.LineItem{{ProductName: "Paint", Quantity: d("1"), Rate: d("3")}}})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if res.Sale.InvoiceNumber != "INV-0002" {
		t.Fatalf("number = %q", res.Sale.InvoiceNumber)
	}
	sales := f.svc.Store().Sales.Items()
	if len(sales) != 2 || sales[0].InvoiceNumber != "INV-0001" || sales[1].InvoiceNumber != "INV-0002" {
		t.Errorf("sales = %+v", sales)
	}
}

func TestCreateSale_WithoutBackendIDKeepsNoID(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /sale-invoice":  `[]`,
		"POST /sale-invoice": `{}`,
	})
	res, err := f.svc.CreateSale(context.Background(), core.Sale{Items: []core.LineItem{{ProductName: "Paint", Quantity: d("1")}}})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if res.Sale.ID != "" || res.Sale.InvoiceNumber != "INV-0001" {
		t.Errorf("keys = %q %q", res.Sale.InvoiceNumber, res.Sale.ID)
	}
}

func TestCreatePurchases_IncreaseStock(t *testing.T) {
	lines := []core.LineItem{{ProductID: "p1", ProductName: "Cement", Quantity: d("4"), Rate: d("100")}}

	t.Run("purchase order", func(t *testing.T) {
		f := buyFixture(t, map[string]string{"POST /purchaseorder": `{"_id":"po2"}`})
		res, err := f.svc.CreatePurchaseOrder(context.Background(), core.PurchaseOrder{
			Supplier: core.PartyRef{Name: "acme"},
			Items:    lines,
		})
		if err != nil {
			t.Fatalf("CreatePurchaseOrder: %v", err)
		}
		if res.Order.PONumber != "PO-002" || res.Order.Supplier.ID != "s1" {
			t.Errorf("order = %+v", res.Order)
		}
		if p, _ := f.svc.Store().Inventory.Find("p1"); !p.Stock.Equal(d("14")) {
			t.Errorf("stock = %s, want 14", p.Stock)
		}
	})

	t.Run("purchase invoice", func(t *testing.T) {
		f := buyFixture(t, map[string]string{
			"GET /purchase-invoice":  `[{"invoiceNumber":"PINV-0009","items":[]}]`,
			"POST /purchase-invoice": `{"_id":"pi10"}`,
		})
		res, err := f.svc.CreatePurchaseInvoice(context.Background(), core.PurchaseInvoice{Items: lines})
		if err != nil {
			t.Fatalf("CreatePurchaseInvoice: %v", err)
		}
		if res.Invoice.InvoiceNumber != "PINV-0010" || res.Stock.Applied != 1 {
			t.Errorf("invoice = %q, stock = %+v", res.Invoice.InvoiceNumber, res.Stock)
		}
		if p, _ := f.svc.Store().Inventory.Find("p1"); !p.Stock.Equal(d("14")) {
			t.Errorf("stock = %s, want 14", p.Stock)
		}
	})

	t.Run("failed order leaves stock", func(t *testing.T) {
		f := buyFixture(t, nil)
		f.be.fail("POST /purchaseorder", http.StatusBadGateway, `{"error":"upstream"}`)
		if _, err := f.svc.CreatePurchaseOrder(context.Background(), core.PurchaseOrder{Items: lines}); err == nil {
			t.Fatal("expected error")
		}
		if p, _ := f.svc.Store().Inventory.Find("p1"); !p.Stock.Equal(d("10")) {
			t.Errorf("stock = %s, want 10", p.Stock)
		}
	})
}

func TestDeleteCustomer_EmptyIDNeverCallsBackend(t *testing.T) {
	f := newFixture(t, map[string]string{"GET /customers": `[{"_id":"c1","name":"Bob"}]`})
	ctx := context.Background()
	f.svc.LoadCustomers(ctx)

	for _, id := range []string{"", "  "} {
		err := f.svc.DeleteCustomer(ctx, id)
		var verr *core.ValidationError
		if !errors.As(err, &verr) || !errors.Is(err, core.ErrMissingIdentifier) {
			t.Fatalf("DeleteCustomer(%q) err = %v", id, err)
		}
	}
	for key := range f.be.calls {
		if key != "GET /customers" {
			t.Errorf("unexpected call %s", key)
		}
	}
	if n := f.svc.Store().Customers.Len(); n != 1 {
		t.Errorf("customers = %d", n)
	}
	if n := f.lastNote(t); n.Level != notify.Error {
		t.Errorf("notification = %+v", n)
	}
}

func TestCreateExpenseAndVouchers_AutoNumber(t *testing.T) {
	f := newFixture(t, map[string]string{
		"GET /expenses":         `[{"expenseNumber":"EXP-0004","amount":10}]`,
		"POST /expenses":        `{"_id":"e5"}`,
		"GET /reciept-voucher":  `[{"voucherNo":"RV-0001","amount":5},{"voucherNo":"RV-0002","amount":5}]`,
		"POST /reciept-voucher": `{"_id":"r3"}`,
		"GET /payment-voucher":  `[]`,
		"POST /payment-voucher": `{"_id":"p1"}`,
	})
	ctx := context.Background()

	e, err := f.svc.CreateExpense(ctx, core.Expense{Category: "Rent", Amount: d("30")})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if e.ExpenseNumber != "EXP-0005" || e.ID != "e5" {
		t.Errorf("expense keys = %q %q", e.ExpenseNumber, e.ID)
	}

	tests := []struct {
		kind core.VoucherKind
		want string
	}{
		{"", "RV-0003"},
		{core.PaymentVoucher, "PV-0001"},
	}
	for _, tt := range tests {
		v, err := f.svc.CreateVoucher(ctx, core.Voucher{Kind: tt.kind, Amount: d("12")})
		if err != nil {
			t.Fatalf("CreateVoucher(%q): %v", tt.kind, err)
		}
		if v.VoucherNumber != tt.want {
			t.Errorf("voucher number = %q, want %q", v.VoucherNumber, tt.want)
		}
	}
	if n := f.svc.Store().ReceiptVouchers.Len(); n != 3 {
		t.Errorf("receipt vouchers = %d", n)
	}
	if n := f.svc.Store().PaymentVouchers.Len(); n != 1 {
		t.Errorf("payment vouchers = %d", n)
	}
}

func TestLoad_RetriesAfterFailure(t *testing.T) {
	f := newFixture(t, map[string]string{})
	f.be.fail("GET /sale-invoice", http.StatusInternalServerError, `{"message":"down"}`)
	ctx := context.Background()

	if got := f.svc.LoadSales(ctx); len(got) != 0 {
		t.Fatalf("sales = %+v", got)
	}
	if f.svc.Store().Sales.Err() == "" {
		t.Error("load error not recorded")
	}

	f.be.fail("GET /sale-invoice", http.StatusOK, `[{"invoiceNumber":"INV-0001","items":[]}]`)
	if got := f.svc.LoadSales(ctx); len(got) != 1 {
		t.Fatalf("sales after retry = %+v", got)
	}
	if n := f.be.count("GET /sale-invoice"); n != 2 {
		t.Errorf("GET /sale-invoice = %d, want 2", n)
	}
	if st := f.svc.Store().Sales; !st.Loaded() || st.Err() != "" {
		t.Errorf("loaded=%v err=%q", st.Loaded(), st.Err())
	}
}
