package facereading

import (
	"strings"

	"github.com/kozaktomas/face-reader/internal/constants"
)

const fallbackOverview = "面相分析完成，您的面部特征显示出独特的个人魅力。"

// Fallback returns the canned report served when the model reply holds no
// parseable JSON. The overview keeps the start of the raw reply so the user
// still sees what the model said.
func Fallback(content string) *Report {
	overview := truncateRunes(strings.TrimSpace(content), constants.FallbackOverviewLength)
	if overview == "" {
		overview = fallbackOverview
	}

	return &Report{
		Overview: overview,
		FiveOfficials: FiveOfficials{
			Ear:     "耳型端正，代表智慧与福气，少年运势平顺。",
			Eyebrow: "眉形秀丽，主贵人运佳，兄弟缘分深厚。",
			Eye:     "眼神明亮有神，心性善良，意志力坚定。",
			Nose:    "鼻相端正挺拔，财运稳健，中年运势上佳。",
			Mouth:   "口型周正，福禄双全，晚年生活安康。",
		},
		ThreeZones: ThreeZones{
			Upper:  "上停饱满开阔，代表少年时期运势平顺，智慧聪颖，学业顺利。",
			Middle: "中停挺拔有力，预示中年事业有成，财运亨通，贵人相助。",
			Lower:  "下停圆润厚实，晚年福寿安康，子孙贤孝，家庭和美。",
		},
		TwelvePalaces: TwelvePalaces{
			Life:     "命宫开阔明亮，基础运势良好",
			Wealth:   "财帛宫丰隆，财运亨通",
			Siblings: "兄弟宫和睦，手足情深",
			Marriage: "夫妻宫美满，姻缘和谐",
			Children: "子女宫旺盛，子嗣运佳",
			Health:   "疾厄宫平稳，身体康健",
			Travel:   "迁移宫顺利，出行平安",
			Friends:  "奴仆宫充实，人缘极佳",
			Career:   "官禄宫高照，事业顺遂",
			Property: "田宅宫安稳，家宅平安",
			Fortune:  "福德宫深厚，福气绑身",
			Parents:  "父母宫和顺，孝道双全",
		},
		Fortune: Fortune{
			Career: "事业运势良好，适合稳步发展，贵人相助，有望在专业领域取得突破。",
			Wealth: "财运平稳向上，正财运佳，适合稳健理财，避免冒险投资。",
			Love:   "感情运势温和，单身者有望遇到良缘，已有伴者感情稳定。",
			Health: "注意作息规律，保持心情愉悦，适当运动，身体自然康健。",
		},
		Advice: "相由心生，保持积极乐观的心态是最好的开运方式。善待他人，广结善缘，福报自来。建议多行善事，保持谦逊，必能心想事成。",
		LuckyElements: LuckyElements{
			Color:     "紫色、金色、蓝色",
			Number:    "3、6、8",
			Direction: "东南方、正南方",
		},
	}
}

// truncateRunes cuts s to at most n characters without splitting a UTF-8 sequence.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
