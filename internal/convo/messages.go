package convo

import (
	"fmt"
	"strings"

	"aetv-bot/internal/catalog"
	"aetv-bot/internal/lang"
)

// Reply copy. Every reply goes out in the detected language first, then the
// other language after a separator (the bilingual echo), except the fixed
// thanks/confirmation blocks which are pre-composed.
const bilingualSeparator = "\n—\n"

const (
	welcomeEN = "👋 Welcome to AECyberTV!\n\n" +
		"1) Offers\n" +
		"2) Free Trial (24h)\n" +
		"3) Support\n\n" +
		"Reply with: 1 / 2 / 3"
	welcomeAR = "👋 أهلاً بك في AECyberTV!\n\n" +
		"١) العروض\n" +
		"٢) تجربة مجانية (24 ساعة)\n" +
		"٣) الدعم الفني\n\n" +
		"أرسل: 1 / 2 / 3"

	supportPromptEN = "🛠 Support: please describe your issue; we'll assist shortly."
	supportPromptAR = "🛠 الدعم الفني: صف المشكلة وسنقوم بالمساعدة قريباً."

	trialPromptEN = "✅ Free Trial (24h): please send your email or phone."
	trialPromptAR = "✅ تجربة مجانية (24 ساعة): أرسل بريدك الإلكتروني أو رقم هاتفك."

	choosePromptEN = "Please choose a package: premium / executive / casual / kids."
	choosePromptAR = "الرجاء اختيار باقة: premium / executive / casual / kids."

	fallbackEN = "I didn't get that. Reply 1 / 2 / 3, or type 'start'."
	fallbackAR = "لم أفهم. أرسل 1 / 2 / 3 أو اكتب 'start'."

	payInstructionEN = "💳 Pay here: %s\nAfter payment, send us your receipt and we'll activate your subscription."
	payInstructionAR = "💳 ادفع هنا: %s\nبعد الدفع أرسل لنا الإيصال وسنقوم بتفعيل اشتراكك."
)

// Fixed bilingual blocks; not echoed per detected language.
const (
	supportThanks = "🙏 Thanks! Our support team will contact you shortly.\n" +
		"🙏 شكراً! سيتواصل معك فريق الدعم قريباً."
	trialConfirm = "✅ Got it! Your 24h free trial details will be sent shortly.\n" +
		"✅ تم! سنرسل لك تفاصيل التجربة المجانية (24 ساعة) قريباً."
)

// echo renders the detected language's text first, then the other language's
// rendering of the same message.
func echo(detected lang.Language, en, ar string) string {
	if detected == lang.AR {
		return ar + bilingualSeparator + en
	}
	return en + bilingualSeparator + ar
}

func welcomeBanner(l lang.Language) string {
	return echo(l, welcomeEN, welcomeAR)
}

func supportPrompt(l lang.Language) string {
	return echo(l, supportPromptEN, supportPromptAR)
}

func trialPrompt(l lang.Language) string {
	return echo(l, trialPromptEN, trialPromptAR)
}

func choosePrompt(l lang.Language) string {
	return echo(l, choosePromptEN, choosePromptAR)
}

func fallbackReply(l lang.Language) string {
	return echo(l, fallbackEN, fallbackAR)
}

// offersReply lists all four plans in fixed catalog order, then the
// choose-a-package prompt.
func offersReply(c *catalog.Catalog, l lang.Language) string {
	var en, ar strings.Builder
	en.WriteString("🎁 Offers:\n")
	ar.WriteString("🎁 العروض:\n")
	for _, plan := range c.Plans() {
		en.WriteString("• ")
		en.WriteString(plan.DescriptionEN)
		en.WriteString("\n")
		ar.WriteString("• ")
		ar.WriteString(plan.DescriptionAR)
		ar.WriteString("\n")
	}
	en.WriteString("\n")
	en.WriteString(choosePromptEN)
	ar.WriteString("\n")
	ar.WriteString(choosePromptAR)
	return echo(l, en.String(), ar.String())
}

// orderReply is the plan description plus payment link and post-payment
// instruction.
func orderReply(c *catalog.Catalog, plan catalog.PlanID, l lang.Language) string {
	url := c.PayURL(plan)
	en := c.Describe(plan, lang.EN) + "\n" + fmt.Sprintf(payInstructionEN, url)
	ar := c.Describe(plan, lang.AR) + "\n" + fmt.Sprintf(payInstructionAR, url)
	return echo(l, en, ar)
}
