package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Culture constants, packed into the high part of Card.
const (
	CultureFuzhou   uint8 = 0 // 福州侯官文化
	CultureQuanzhou uint8 = 1 // 泉州海丝文化
	CultureNanping  uint8 = 2 // 南平朱子文化
	CultureLongyan  uint8 = 3 // 龙岩红色文化
	CulturePutian   uint8 = 4 // 莆田妈祖文化
)

// Kind constants, packed into the middle part of Card.
const (
	KindCharacter uint8 = 0
	KindLocation  uint8 = 1
	KindQuote     uint8 = 2
)

const (
	NumCultures   = 5
	NumKinds      = 3
	CardsPerGroup = 5
	CatalogSize   = NumCultures * NumKinds * CardsPerGroup // 75
)

// Card is a packed uint8 index into the fixed catalog:
// culture*15 + kind*5 + ordinal.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from culture, kind, and ordinal within the group.
func NewCard(culture, kind, ordinal uint8) Card {
	return Card(culture*NumKinds*CardsPerGroup + kind*CardsPerGroup + ordinal)
}

// Culture returns the card's culture category.
func (c Card) Culture() uint8 { return uint8(c) / (NumKinds * CardsPerGroup) }

// Kind returns the card's kind category.
func (c Card) Kind() uint8 { return (uint8(c) % (NumKinds * CardsPerGroup)) / CardsPerGroup }

// Ordinal returns the card's 0-based position within its culture/kind group.
func (c Card) Ordinal() uint8 { return uint8(c) % CardsPerGroup }

// Valid reports whether c identifies a catalog card.
func (c Card) Valid() bool { return uint8(c) < CatalogSize }

// ID returns the stable wire identity of the card ("card_1" … "card_75").
func (c Card) ID() string {
	if !c.Valid() {
		return ""
	}
	return "card_" + strconv.Itoa(int(c)+1)
}

// ParseCardID converts a wire identity back to a Card.
func ParseCardID(id string) (Card, error) {
	rest, ok := strings.CutPrefix(id, "card_")
	if !ok {
		return EmptyCard, fmt.Errorf("malformed card id %q", id)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > CatalogSize {
		return EmptyCard, fmt.Errorf("card id %q out of range", id)
	}
	return Card(n - 1), nil
}

// Name returns the card's display name.
func (c Card) Name() string {
	if !c.Valid() {
		return ""
	}
	return cardNames[c]
}

// AssetPath returns the display asset reference for the card. The path is an
// opaque string resolved by the presentation layer.
func (c Card) AssetPath() string {
	if !c.Valid() {
		return ""
	}
	return "/static/game-card/" + cardNames[c] + ".png"
}

// Description returns a short human-readable summary of the card.
func (c Card) Description() string {
	if !c.Valid() {
		return ""
	}
	return cardNames[c] + " - " + CultureName(c.Culture()) + " " + KindName(c.Kind())
}

// CultureName returns the display name of a culture category.
func CultureName(culture uint8) string {
	if culture >= NumCultures {
		return ""
	}
	return cultureNames[culture]
}

// KindName returns the display name of a kind category.
func KindName(kind uint8) string {
	if kind >= NumKinds {
		return ""
	}
	return kindNames[kind]
}

var cultureNames = [NumCultures]string{
	"福州侯官文化",
	"泉州海丝文化",
	"南平朱子文化",
	"龙岩红色文化",
	"莆田妈祖文化",
}

var kindNames = [NumKinds]string{
	"人物",
	"地点",
	"语录",
}

// cardNames holds the display name for every catalog card, in packed order:
// 5 characters, 5 locations, 5 quotes per culture.
var cardNames = [CatalogSize]string{
	// 福州侯官文化
	"严复", "林觉民", "林旭", "林则徐", "沈葆祯",
	"城隍庙", "林则徐纪念馆", "三坊七巷", "严复故居", "中国船政文化博物馆",
	"苟利国家生死以，岂因祸福避趋之",
	"海纳百川，有容乃大；壁立千仞，无欲则刚",
	"物竞天择，适者生存",
	"以天下人为念，为天下人谋永福",
	"中学为体，西学为用",
	// 泉州海丝文化
	"弘一法师", "马可·波罗", "蒲寿庚", "王审知", "郑和",
	"开元寺", "洛阳桥", "清净寺", "泉州海外交通史博物馆", "泉州市舶司遗址",
	"苍宫影里三洲路，涨海声中万国商",
	"此地古称佛国，满街都是圣人",
	"刺桐花开了多少个春天，东西塔对望究竟多少年，多少人走过了洛阳桥，多少船驶出了泉州湾",
	"有风呣通驶尽帆",
	"站如东西塔，卧如洛阳桥",
	// 南平朱子文化
	"蔡元定", "黄幹", "刘子翠", "真德秀", "朱熹",
	"考亭书院", "五经博士府", "武夷精舍", "兴贤书院", "紫阳楼",
	"存天理，灭人欲",
	"读书之法，在循序而渐进，熟读而精思",
	"民生之本在食，足食之本在农",
	"问渠哪得清如许，为有源头活水来",
	"勿以善小而不为，勿以恶小而为之",
	// 龙岩红色文化
	"翟秋白", "刘亚楼", "毛泽东", "杨成武", "朱德",
	"翟秋白烈士纪念碑", "古田会议旧址", "刘亚楼将军故居", "毛泽东才溪乡调查纪念馆", "中央苏区历史博物馆",
	"没有调查，没有发言权",
	"思想建党，政治建军",
	"苏区干部好作风，自带饭包去办公，日着草鞋干革命，夜走山路访贫农",
	"星星之火，可以燎原",
	"跃过汀江，直下龙岩上杭",
	// 莆田妈祖文化
	"李少霞", "林默娘", "林惟悫", "施琅", "吴还初",
	"妈祖阁", "湄洲妈祖祖庙", "宋代航标塔", "文峰天后宫", "贤良港天后祖祠",
	"风大找妈祖",
	"海神护佑，风平浪静",
	"四海恩波颂莆海，五洲香火祖湄洲",
	"文峰宫里看总簿",
	"文献名邦历千年，自古人杰地钟灵",
}
