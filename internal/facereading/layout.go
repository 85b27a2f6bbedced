package facereading

// Item is one labelled field inside a report section.
type Item struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Desc string `json:"desc,omitempty"`
}

// Section groups items under a heading. Sections without items render a single text block.
type Section struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Icon     string `json:"icon"`
	Items    []Item `json:"items,omitempty"`
}

var layout = []Section{
	{Key: "overview", Title: "面相总评", Subtitle: "AI智能解读", Icon: "🔮"},
	{
		Key: "fiveOfficials", Title: "五官分析", Icon: "👁️",
		Items: []Item{
			{Key: "ear", Name: "耳 · 采听官", Icon: "👂"},
			{Key: "eyebrow", Name: "眉 · 保寿官", Icon: "🤨"},
			{Key: "eye", Name: "眼 · 监察官", Icon: "👁️"},
			{Key: "nose", Name: "鼻 · 审辨官", Icon: "👃"},
			{Key: "mouth", Name: "口 · 出纳官", Icon: "👄"},
		},
	},
	{
		Key: "threeZones", Title: "三停分析", Icon: "📐",
		Items: []Item{
			{Key: "upper", Name: "上停", Icon: "🌅", Desc: "少年运 (15-30岁)"},
			{Key: "middle", Name: "中停", Icon: "☀️", Desc: "中年运 (31-50岁)"},
			{Key: "lower", Name: "下停", Icon: "🌙", Desc: "晚年运 (51岁后)"},
		},
	},
	{
		Key: "twelvePalaces", Title: "十二宫位", Icon: "🏯",
		Items: []Item{
			{Key: "life", Name: "命宫", Icon: "🌟", Desc: "印堂"},
			{Key: "wealth", Name: "财帛宫", Icon: "💰", Desc: "鼻头"},
			{Key: "siblings", Name: "兄弟宫", Icon: "🤝", Desc: "眉毛"},
			{Key: "marriage", Name: "夫妻宫", Icon: "💑", Desc: "眼尾"},
			{Key: "children", Name: "子女宫", Icon: "👶", Desc: "下眼皮"},
			{Key: "health", Name: "疾厄宫", Icon: "🩺", Desc: "山根"},
			{Key: "travel", Name: "迁移宫", Icon: "🧳", Desc: "额角"},
			{Key: "friends", Name: "奴仆宫", Icon: "👥", Desc: "面颊下"},
			{Key: "career", Name: "官禄宫", Icon: "🏛️", Desc: "额中"},
			{Key: "property", Name: "田宅宫", Icon: "🏠", Desc: "眼皮"},
			{Key: "fortune", Name: "福德宫", Icon: "🍀", Desc: "眉上"},
			{Key: "parents", Name: "父母宫", Icon: "👪", Desc: "额上左右"},
		},
	},
	{
		Key: "fortune", Title: "运势预测", Icon: "🎯",
		Items: []Item{
			{Key: "career", Name: "事业运", Icon: "💼"},
			{Key: "wealth", Name: "财运", Icon: "💰"},
			{Key: "love", Name: "感情运", Icon: "💕"},
			{Key: "health", Name: "健康运", Icon: "💪"},
		},
	},
	{
		Key: "luckyElements", Title: "开运指南", Icon: "🍀",
		Items: []Item{
			{Key: "color", Name: "幸运颜色", Icon: "🎨"},
			{Key: "number", Name: "幸运数字", Icon: "🔢"},
			{Key: "direction", Name: "吉利方位", Icon: "🧭"},
		},
	},
	{Key: "advice", Title: "大师寄语", Icon: "💡"},
}

// Layout returns the display order, headings and icons of a report.
// The returned slice is a copy and may be modified by the caller.
func Layout() []Section {
	out := make([]Section, len(layout))
	for i, s := range layout {
		out[i] = s
		out[i].Items = append([]Item(nil), s.Items...)
	}
	return out
}

// RenderedItem is an Item with its report text filled in.
type RenderedItem struct {
	Item
	Text string `json:"text"`
}

// RenderedSection is a Section with its report text filled in.
type RenderedSection struct {
	Key      string         `json:"key"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle,omitempty"`
	Icon     string         `json:"icon"`
	Text     string         `json:"text,omitempty"`
	Items    []RenderedItem `json:"items,omitempty"`
}

// Render maps report fields onto the layout.
func Render(r *Report) []RenderedSection {
	fields := r.fields()
	out := make([]RenderedSection, 0, len(layout))
	for _, s := range layout {
		rs := RenderedSection{
			Key:      s.Key,
			Title:    s.Title,
			Subtitle: s.Subtitle,
			Icon:     s.Icon,
		}
		if len(s.Items) == 0 {
			rs.Text = fields[s.Key][""]
		}
		for _, it := range s.Items {
			rs.Items = append(rs.Items, RenderedItem{Item: it, Text: fields[s.Key][it.Key]})
		}
		out = append(out, rs)
	}
	return out
}
