package quiz

var questions = []Question{
	{
		ID:       "q1",
		Question: "當你發現體重數字上升時，你通常第一個念頭是？",
		Options: []Option{
			{CategoryControl, "我要立刻控制飲食、加強運動"},
			{CategoryPerfection, "我又搞砸了，我總是做不到"},
			{CategoryComparison, "別人都可以，為什麼我不行"},
			{CategoryAvoid, "不想面對，先不要量"},
		},
	},
	{
		ID:       "q2",
		Question: "面對想吃卻「不該吃」的食物時，你常會？",
		Options: []Option{
			{CategoryControl, "嚴格禁止，訂規則今天不能吃"},
			{CategoryPerfection, "吃一口就覺得前功盡棄，乾脆吃到底"},
			{CategoryComparison, "看別人吃沒事，我吃就罪惡"},
			{CategoryAvoid, "轉移注意力，不去想就不會吃"},
		},
	},
	{
		ID:       "q3",
		Question: "運動或飲食計畫中斷時，你心裡最常出現的聲音是？",
		Options: []Option{
			{CategoryControl, "明天要加倍補回來"},
			{CategoryPerfection, "我果然沒辦法堅持，算了"},
			{CategoryComparison, "別人都能持續，只有我半途而廢"},
			{CategoryAvoid, "不想提這件事，當沒發生過"},
		},
	},
	{
		ID:       "q4",
		Question: "別人稱讚你「變瘦了」「氣色好」時，你的反應比較接近？",
		Options: []Option{
			{CategoryControl, "要維持住，不能鬆懈"},
			{CategoryPerfection, "他們只是客氣，我還沒達到標準"},
			{CategoryComparison, "跟某某比還差得遠"},
			{CategoryAvoid, "不太習慣被注意身體，想轉移話題"},
		},
	},
	{
		ID:       "q5",
		Question: "你認為「瘦下來」對你來說最主要代表什麼？",
		Options: []Option{
			{CategoryControl, "能掌控自己的身體與生活"},
			{CategoryPerfection, "終於能符合自己或他人的期待"},
			{CategoryComparison, "不會再輸給別人、不會被比下去"},
			{CategoryAvoid, "可以不用再面對失敗或批評"},
		},
	},
}

var results = []Result{
	{
		Key:         CategoryControl,
		Title:       "控制型假瘦語言",
		Description: "你常透過「規則、計畫、加倍補償」來管理身體與飲食，背後是對失控的焦慮。身體不是敵人，不需要被鎮壓。",
		Suggestion:  "試著區分：哪些是真正的身體需求，哪些是頭腦的「必須」。允許自己偶爾不照計畫，觀察會發生什麼。",
		CTA:         "預約一次陪跑，我們一起鬆動「一定要控制」的設定。",
	},
	{
		Key:         CategoryPerfection,
		Title:       "完美型假瘦語言",
		Description: "你對自己很嚴苛，一點偏離就全盤否定。「要嘛完美要嘛放棄」的語言，常常讓身體更緊繃、更難改變。",
		Suggestion:  "練習把「搞砸」改成「今天跟計畫不一樣」。每一個小步都算數，不需要一次到位。",
		CTA:         "來聊聊那些「不夠好」的念頭從哪裡來，我們不追求完美，只追求更貼近自己。",
	},
	{
		Key:         CategoryComparison,
		Title:       "比較型假瘦語言",
		Description: "你常拿自己跟別人比，或跟理想的自己比，比輸了就很挫敗。身體不是競技場，你的旅程是獨一無二的。",
		Suggestion:  "減少追蹤「別人怎麼做」，多問自己：此刻我的身體需要什麼？什麼節奏對我來說是舒服的？",
		CTA:         "預約陪跑，把眼光從別人身上收回來，專心聽自己的身體說話。",
	},
	{
		Key:         CategoryAvoid,
		Title:       "迴避型假瘦語言",
		Description: "你習慣不面對數字、不談身體、不談失敗。迴避可以暫時不痛，但身體的訊號不會消失，只是被壓下去。",
		Suggestion:  "試著在安全的情境下，輕輕碰觸一下「不想面對」的感覺。不需要一次解決，只要願意看一眼就好。",
		CTA:         "找一個不會評斷你的人聊聊。預約陪跑，我們可以慢慢來，你決定要談多少。",
	},
}
