package composer

import (
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"
)

type conditionKey struct {
	productID int64
	ruleID    int64
}

// Request carries everything scoped to one product display: the inputs, the
// store snapshots and memoised condition results of the composition in
// progress, and the rule tabs the last composition kept. Snapshots and
// condition results are dropped when the next Compose starts. A Request must
// not be shared between goroutines; the zero value is ready to use.
type Request struct {
	Product   *models.Product
	Requester models.RequesterContext
	Device    models.DeviceContext

	rules       []models.Rule
	rulesLoaded bool
	rulesOK     bool

	settings       []models.TabSetting
	settingsLoaded bool
	settingsOK     bool

	conditions map[conditionKey]bool

	// rule tabs that survived the last Compose, by tab id; read by RenderContent
	survivors map[string]*models.Rule
}

// NewRequest creates a new request context
func NewRequest(product *models.Product, requester models.RequesterContext, device models.DeviceContext) *Request {
	return &Request{
		Product:    product,
		Requester:  requester,
		Device:     device,
		conditions: make(map[conditionKey]bool),
		survivors:  make(map[string]*models.Rule),
	}
}

func (r *Request) cachedCondition(ruleID int64) (bool, bool) {
	v, ok := r.conditions[conditionKey{productID: r.Product.ID, ruleID: ruleID}]
	return v, ok
}

// reset starts a new composition. Only the inputs survive.
func (r *Request) reset() {
	r.rules, r.rulesLoaded, r.rulesOK = nil, false, false
	r.settings, r.settingsLoaded, r.settingsOK = nil, false, false
	r.conditions = make(map[conditionKey]bool)
	r.survivors = make(map[string]*models.Rule)
}

func (r *Request) storeCondition(ruleID int64, result bool) {
	if r.conditions == nil {
		r.conditions = make(map[conditionKey]bool)
	}
	r.conditions[conditionKey{productID: r.Product.ID, ruleID: ruleID}] = result
}
