package content

var siteInfo = SiteInfo{
	Name:            "身心靈瘦身教練",
	Description:     "陪你回到身體的安全感，找回與自己和解的力量。",
	LineOfficialURL: "https://lin.ee/nCzoQCt",
	LineBrandLabel:  "身心靈瘦身品牌教練【湘芸】",
	LineTagline:     "心靈減脂｜產後減脂｜反覆復胖｜健康吃瘦",
	FacebookURL:     "https://www.facebook.com/Chen.cc126",
	InstagramURL:    "https://www.instagram.com/chen.cc126/",
}

var testimonials = []Testimonial{
	{"A", "我每次爆食完都很後悔，覺得自己很沒用", "我發現我是在吞下那些不能說的情緒。現在我學會了先問自己：你怎麼了？"},
	{"M", "我已經試過所有方法，就是瘦不下來", "原來我的身體一直覺得「瘦」代表危險。當我開始感覺安全，體重才開始鬆動。"},
	{"S", "我恨我的身體，它從來不聽我的話", "現在我知道，身體不是敵人，它一直在保護我。我們和解了。"},
}

var stories = []Story{
	{
		Initial:      "A",
		Before:       "我每次爆食完都很後悔，覺得自己很沒用，為什麼就是控制不了",
		After:        "我發現我是在吞下那些不能說的情緒——那些在工作中不能表達的委屈，在家裡不能展現的脆弱。現在我學會了先問自己：「你怎麼了？你需要什麼？」",
		Journey:      "3個月的陪跑旅程",
		ImageURL:     "/static/demo-story.jpg",
		ImageCaption: "三個月後，我開始敢看鏡頭了",
	},
	{
		Initial:      "M",
		Before:       "我已經試過所有方法，節食、運動、各種減肥產品，就是瘦不下來",
		After:        "原來我的身體一直覺得「瘦」代表危險。小時候媽媽生病那段時間，瘦對我來說等於不安全。當我開始感覺現在是安全的，體重才開始鬆動。",
		Journey:      "6個月的深度陪伴",
		ImageURL:     "/static/demo-petal.jpg",
		ImageCaption: "六個月的深度陪伴，身體開始鬆動",
	},
	{
		Initial:      "S",
		Before:       "我恨我的身體，它從來不聽我的話，我覺得它背叛了我",
		After:        "現在我知道，身體不是敵人，它一直在用自己的方式保護我。那些脂肪，是它給我的盔甲。我們和解了，我開始說：謝謝你一直保護我。",
		Journey:      "4個月的轉化之路",
		ImageURL:     "/static/demo-story.jpg",
		ImageCaption: "與身體和解的那一天",
	},
	{
		Initial: "L",
		Before:  "我覺得自己很貪吃，沒救了，別人都能控制，就我不行",
		After:   "原來「貪吃」只是表象，底下是長期被忽略的匱乏感。當我開始允許自己擁有、被滿足，對食物的執念反而變淡了。",
		Journey: "5個月的自我探索",
	},
	{
		Initial: "C",
		Before:  "每次減下來都會復胖，我已經不相信自己可以維持了",
		After:   "我終於明白，以前的減重是「強迫身體」，復胖是身體的反撲。現在的改變是「理解身體」，它自己就不想回去了。",
		Journey: "持續進行中的陪伴",
	},
}

var galleryPhotos = []GalleryPhoto{
	{"gallery-1", "/static/demo-gallery-1.jpg", "願意分享的經歷"},
	{"gallery-2", "/static/demo-gallery-2.jpg", "改變的模樣"},
	{"gallery-3", "/static/demo-gallery-3.jpg", "溫柔地活出來的樣子"},
}

var resources = []Resource{
	{"sparkles", "小測驗", "你是哪一種假瘦語言？", "5 分鐘了解你的身體正在說什麼", "開始測驗", "/quiz"},
	{"book-open", "免費下載", "鬆動設定點的三個小行動", "開始溫柔改變的第一步", "免費下載", "/resources#download"},
	{"message-circle", "每日語錄", "給身體的一句話", "每天一句，重新認識自己", "訂閱語錄", "/resources#quotes"},
}

var dailyQuotes = []string{
	"你的身體不是問題，它是解答的入口。",
	"慢下來，不是放棄，是選擇用身體能接受的速度前進。",
	"今天，允許自己不完美。",
	"渴望是身體的語言，學著翻譯它。",
	"你已經走了很遠，記得回頭看看。",
}

var bookingFeatures = []Feature{
	{"heart", "深度陪伴", "不是教你方法，而是陪你找到屬於你的答案。每個人的身體都是獨特的，我們一起探索。"},
	{"clock", "尊重節奏", "沒有進度壓力，沒有必須達成的目標。你的節奏，就是最好的節奏。"},
	{"shield", "安全空間", "這裡沒有評判，只有理解。你可以說出那些從來不敢說的話。"},
	{"sparkles", "整合轉化", "身心靈的整合，不只是體重的改變，而是與自己關係的轉化。"},
}

var introFeatures = []Feature{
	{"heart", "理解，而非改造", "你的身體一直在說話，只是沒人教你如何聆聽。"},
	{"sparkles", "溫柔的轉化", "不需要意志力的戰爭，只需要理解的陪伴。"},
	{"sun", "真正的安全感", "當身體感到安心，改變就會自然發生。"},
}

var introPreview = Transformation{
	Before: "「我就是太懶了，沒有毅力」",
	After:  "「我其實是太累了，但沒人允許我停下來」",
}

var aboutTransformations = []Transformation{
	{"我就是太懶了", "我其實是太累了，但沒人允許我停下來"},
	{"我沒有自制力", "我的身體正在用渴望表達某種需要"},
	{"我的身材太糟了", "我的身體一直在保護我，用它知道的方式"},
	{"我怎麼又破功了", "這不是失敗，是身體還在適應新的安全感"},
}

var shortVideos = []ShortVideo{
	{ID: "demo-1", Title: "溫柔對待身體的一句話", LinkURL: "https://www.tiktok.com", Thumbnail: "/static/demo-video.jpg"},
	{ID: "demo-2", Title: "日常中的小練習", LinkURL: "https://www.tiktok.com", Thumbnail: "/static/demo-gallery-1.jpg"},
	{ID: "demo-3", Title: "加入你的短影音", LinkURL: "https://www.tiktok.com", Thumbnail: "/static/demo-gallery-2.jpg"},
}

var noteTemplates = []NoteTemplate{
	{"飲食紀錄已收", "本週飲食紀錄已收到，待檢視後回饋。"},
	{"本週目標設定", "本週目標："},
	{"情緒較穩", "本週情緒較平穩，飲食與作息有配合。"},
	{"待回覆表單", "已寄送表單連結，等待學員回填。"},
	{"下次諮詢重點", "下次諮詢重點："},
	{"產後調整", "產後階段，以建立習慣為主，不追求速度。"},
	{"反覆減肥", "曾反覆減肥，本次著重心態與節奏。"},
}
