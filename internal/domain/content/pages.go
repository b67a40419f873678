package content

// Page slugs served from markdown.
const (
	PageAbout   = "about"
	PageMethod  = "method"
	PagePrivacy = "privacy"
)

// Page is a long-form public page. Body is markdown; raw HTML in it is escaped
// when rendered.
type Page struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
	CTA         string `json:"cta,omitempty"` // booking button label; empty hides it
}

var pages = map[string]Page{
	PageAbout: {
		Slug:        PageAbout,
		Title:       "關於我",
		Description: "我不是減肥教練，是你的身體翻譯師。",
		CTA:         "預約陪跑",
		Body: `# 我不是減肥教練，是你的身體翻譯師

我曾經和你一樣，用盡所有方法想改變身體。
直到我發現，身體不是需要被征服的敵人，
而是需要被聆聽的老朋友。

## 從壓抑開始的故事

很長一段時間，我相信「瘦」等於「被愛」。我節食、運動、計算每一卡路里。
體重計上的數字，是我每天心情的開關。我以為這是自律，後來才明白那是自我傷害。

## 身體的反撲

身體終於累了。代謝變慢、情緒失控、暴食又自責。
那些年的「努力」，換來的是更深的內耗。直到我停下來問自己：

> 如果身體是一個朋友，它現在想告訴我什麼？

## 轉化的開始

當我開始理解身體的語言，一切都不一樣了。
不再是對抗，而是對話。不再是控制，而是陪伴。
現在，我想把這份理解，帶給每一個像曾經的我一樣的你。

## 準備好被理解了嗎？

我陪你走過我曾經走不過的路。
`,
	},
	PageMethod: {
		Slug:        PageMethod,
		Title:       "五金剛系統",
		Description: "五個理解自己的角度，理解身體的語言。",
		CTA:         "預約一對一陪跑",
		Body: `# 五金剛覺醒系統

這不是五個「步驟」，而是五個理解自己的角度。
不需要照順序，不需要全部完成。
每個人的身體，都有自己的節奏。

這不是一套「減肥方法」，而是五個理解自己的入口。
每一個金剛，都是一把溫柔的鑰匙。

## 想更深入了解你的身體語言？

一對一陪跑中，我會陪你找到屬於你的那把鑰匙。
不是一套方法，而是專屬於你的理解。
`,
	},
	PagePrivacy: {
		Slug:        PagePrivacy,
		Title:       "隱私權政策",
		Description: "我們如何蒐集、使用與保護您的個人資料。",
		Body: `# 隱私權政策

歡迎使用本網站。我們重視您的隱私，以下說明我們如何蒐集、使用與保護您的個人資料。

## 一、蒐集之資料

當您填寫預約表單或訂閱時，我們可能蒐集：姓名、電子信箱、您主動填寫的訊息內容。

## 二、使用目的

僅用於回覆您的預約、提供您所請求的服務與資訊，以及改善我們的服務品質。

## 三、保護與保存

您的資料將被安全保管，不會出售或提供給無關第三人。我們僅在必要範圍內保存資料。

## 四、您的權利

您可要求查詢、更正或刪除您的個人資料，請透過預約表單或網站所載聯絡方式與我們聯繫。您亦可透過[官方 LINE](https://lin.ee/nCzoQCt)與我們聯繫。
`,
	},
}

// PageBySlug returns the page for slug.
func PageBySlug(slug string) (Page, bool) {
	p, ok := pages[slug]
	return p, ok
}
