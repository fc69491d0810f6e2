package intent

// Tag names produced by the analyzer. Catalog entries reference these in
// their trigger lists.
const (
	TagPrice          = "price"
	TagMaterials      = "materials"
	TagTime           = "time"
	TagDesign         = "design"
	TagQuantity       = "quantity"
	TagQuality        = "quality"
	TagPremium        = "premium"
	TagDelivery       = "delivery"
	TagUrgent         = "urgent"
	TagFirstTime      = "first_time"
	TagReturning      = "returning"
	TagPriceSensitive = "price_sensitive"
	TagQualityFocused = "quality_focused"
)

// defaultKeywords maps each tag to the phrases that activate it. Matching
// is case-insensitive substring search over the query text; Ukrainian,
// Russian and English vocabularies are mixed because customers write in
// all three.
func defaultKeywords() map[string][]string {
	return map[string][]string{
		TagPrice: {
			"цена", "стоимость", "сколько", "прайс", "расценки", "тариф",
			"ціна", "вартість", "скільки", "коштує", "коштують",
			"price", "cost", "how much",
		},
		TagMaterials: {
			"материал", "бумага", "картон", "плотность", "фактура", "текстура",
			"матеріал", "папір", "щільність",
			"material", "paper",
		},
		TagTime: {
			"срок", "время", "быстро", "завтра", "сегодня", "когда готово",
			"сколько дней", "как долго",
			"термін", "швидко", "завтра", "сьогодні", "коли готово",
			"deadline", "how long",
		},
		TagDesign: {
			"дизайн", "макет", "красиво", "оформление", "стиль", "креатив",
			"уникальный", "индивидуальный",
			"оформлення", "унікальний", "індивідуальний",
			"design", "layout",
		},
		TagQuantity: {
			"штук", "тираж", "количество", "много", "мало", "объем",
			"партия", "оптом",
			"кількість", "багато", "обсяг", "партія", "гуртом",
			"quantity", "bulk",
		},
		TagQuality: {
			"качество", "лучший", "хороший", "надежный", "долговечный",
			"якість", "найкращий", "надійний",
			"quality",
		},
		TagPremium: {
			"премиум", "элитный", "статусный", "престижный", "эксклюзивный",
			"люкс", "vip", "высший класс", "топ", "роскошный",
			"преміум", "елітний", "ексклюзивний",
			"premium", "luxury",
		},
		TagDelivery: {
			"доставка", "отправка", "почта", "курьер", "самовывоз",
			"відправка", "пошта", "кур'єр", "самовивіз",
			"delivery", "shipping",
		},
		TagUrgent: {
			"срочно", "очень быстро", "экспресс", "в течение дня", "немедленно",
			"терміново", "експрес", "негайно",
			"urgent", "express", "asap",
		},
	}
}

// priceSensitiveWords marks a customer shopping on budget.
var priceSensitiveWords = []string{
	"дешево", "недорого", "бюджет", "экономия", "скидка", "дешевле",
	"выгодно", "акция", "минимальная цена",
	"дешево", "недорого", "знижка", "вигідно", "акція",
	"cheap", "discount", "budget",
}

// qualityFocusedWords marks a customer shopping for the premium segment.
var qualityFocusedWords = []string{
	"качество", "лучший", "премиум", "элитный", "статусный", "престижный",
	"эксклюзивный", "люкс", "высококачественный",
	"якість", "найкращий", "преміум", "елітний", "ексклюзивний",
	"premium quality", "top quality",
}

// defaultWeights carries the business importance of each tag. 1.0 is the
// neutral signal; premium-segment intents weigh more because they steer
// toward higher-margin upsells.
func defaultWeights() map[string]float64 {
	return map[string]float64{
		TagPrice:          1.0,
		TagMaterials:      0.9,
		TagTime:           0.8,
		TagDesign:         0.7,
		TagQuantity:       0.6,
		TagQuality:        1.2,
		TagPremium:        1.5,
		TagDelivery:       0.7,
		TagUrgent:         0.9,
		TagFirstTime:      1.1,
		TagReturning:      0.9,
		TagPriceSensitive: 0.8,
		TagQualityFocused: 1.3,
	}
}
