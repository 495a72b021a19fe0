package intent

import (
	"strings"
	"text/template"

	"github.com/go-faster/errors"
)

const (
	tmplGreeting = string(Greeting)
	tmplOpening  = "STORE_HOURS.opening"
	tmplClosing  = "STORE_HOURS.closing"
	tmplWeekend  = "STORE_HOURS.weekend"
	tmplUPI      = "PAYMENT.upi"
	tmplCard     = "PAYMENT.card"
	tmplCash     = "PAYMENT.cash"
)

// DefaultTemplates maps template names to text/template sources. Every
// intent has a template under its own name; rules may refer to variants.
var DefaultTemplates = map[string]string{
	tmplGreeting: "👋 Hi there! How can I assist you today?\n\nYou can ask me about:\n• Product locations\n• Store hours\n• Payment options\n• Return policy\n• And more!",

	string(StoreHours): "🕘 **{{.Name}} Store Hours**\n\n📅 Open 7 days a week\n⏰ {{.Opens}} - {{.Closes}}\n\nCome visit us anytime!",
	tmplOpening:        "🌅 We open at **{{.Opens}}** every day. Looking forward to seeing you!",
	tmplClosing:        "🌙 We close at **{{.Closes}}** every day. Make sure to visit us before then!",
	tmplWeekend:        "📅 Yes! We are open on weekends too!\n\n⏰ Saturday & Sunday: {{.Opens}} - {{.Closes}}",

	string(Payment): "💰 **Payment Options**\n\nWe accept:\n• Cash 💵\n• UPI (Google Pay, PhonePe, Paytm) 📱\n• Credit/Debit Cards 💳\n\nChoose what's convenient for you!",
	tmplUPI:         "📱 Yes! We accept all UPI payments:\n• Google Pay ✅\n• PhonePe ✅\n• Paytm ✅\n• BHIM ✅",
	tmplCard:        "💳 Yes! We accept both:\n• Credit Cards (Visa, Mastercard, RuPay) ✅\n• Debit Cards ✅",
	tmplCash:        "💵 Yes, we accept cash payments at all counters!",

	string(Parking):  "🚗 **Free Parking Available!**\n\nParking space near the main entrance for:\n• Cars 🚗\n• Bikes 🏍️\n• Bicycles 🚲",
	string(Delivery): "🚚 **Yes! We offer Home Delivery**\n\n📍 Within {{.DeliveryRadiusKm}} km radius\n⏱️ Same-day delivery available\n💰 Free delivery on orders above {{.Currency}}{{.FreeDeliveryAbove}}",
	string(Returns):  "↩️ **Easy Returns & Exchanges**\n\n✅ {{.ReturnWindowDays}}-day return policy\n📋 Keep your original bill\n📦 Items should be in original condition\n🔄 Easy exchange available",
	string(Help):     "🧑‍💼 **Need Help?**\n\n📍 Our support desk is near the billing counter\n👥 Friendly staff ready to assist\n📞 You can also call us for queries",
}

// renderTemplates executes every template once against info.
func renderTemplates(sources map[string]string, info StoreInfo) (map[string]string, error) {
	out := make(map[string]string, len(sources))
	for name, src := range sources {
		tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, errors.Wrapf(err, "parse template %s", name)
		}
		var b strings.Builder
		if err := tmpl.Execute(&b, info); err != nil {
			return nil, errors.Wrapf(err, "render template %s", name)
		}
		out[name] = b.String()
	}
	return out, nil
}
