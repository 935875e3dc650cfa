package styles

import "hikaya/internal/domain"

// Style is a named prompt template selecting the voice of a generated story.
// The prompt body is an internal instruction and must never be sent to
// clients; ListPublic strips it.
type Style struct {
	ID     string
	Name   string
	Prompt string
}

// PublicStyle is the client-visible projection of a Style.
type PublicStyle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalog is a fixed ordered set of styles, built once at startup and
// read-only afterwards, so it is safe for concurrent readers.
type Catalog struct {
	ordered []Style
	byID    map[string]Style
}

func NewCatalog() *Catalog {
	c := &Catalog{
		ordered: defaultStyles,
		byID:    make(map[string]Style, len(defaultStyles)),
	}
	for _, s := range defaultStyles {
		c.byID[s.ID] = s
	}
	return c
}

// Default returns the first catalog entry.
func (c *Catalog) Default() Style {
	return c.ordered[0]
}

func (c *Catalog) Lookup(id string) (Style, error) {
	s, ok := c.byID[id]
	if !ok {
		return Style{}, domain.ErrStyleNotFound
	}
	return s, nil
}

// ListPublic returns the catalog in declaration order with prompt bodies
// withheld.
func (c *Catalog) ListPublic() []PublicStyle {
	out := make([]PublicStyle, len(c.ordered))
	for i, s := range c.ordered {
		out[i] = PublicStyle{ID: s.ID, Name: s.Name}
	}
	return out
}

var defaultStyles = []Style{
	{
		ID:     "general_modern_standard",
		Name:   "عربي فصيح حديث (افتراضي)",
		Prompt: "اكتب بأسلوب عربي فصيح حديث وواضح. يجب أن تكون القصة سهلة الفهم وجذابة لجمهور واسع. تجنب التعقيد اللفظي المفرط وركز على سلاسة السرد وجماليات اللغة البسيطة والمعبرة.",
	},
	{
		ID:     "classical_poetic",
		Name:   "فصيح تراثي وشعري",
		Prompt: "اكتب بأسلوب لغوي تراثي، مستلهمًا جماليات النثر العربي القديم. استخدم مفردات غنية وبناء جمل فيه جزالة وفخامة. يمكن أن يتضمن السرد بعض الصور الشعرية والاستعارات البلاغية. اجعل القصة تبدو وكأنها قطعة من أدب العصور الذهبية.",
	},
	{
		ID:     "simple_children",
		Name:   "مبسط للأطفال",
		Prompt: "اكتب قصة مناسبة للأطفال، باستخدام لغة بسيطة جداً وجمل قصيرة ومفهومة. يجب أن تكون القصة مسلية وتحمل قيماً إيجابية. ركز على الحوارات الواضحة والأحداث المشوقة. تجنب الكلمات الصعبة أو المفاهيم المجردة.",
	},
	{
		ID:     "suspense_mystery",
		Name:   "تشويق وغموض",
		Prompt: "اكتب بأسلوب يركز على التشويق والغموض. استخدم بناءاً سردياً يزيد من التوتر تدريجياً، مع تلميحات وإشارات مبهمة تثير فضول القارئ. يجب أن تكون النهاية مفاجئة أو تكشف سراً غير متوقع. اللغة يجب أن تكون دقيقة وموحية.",
	},
	{
		ID:     "humorous_sarcastic",
		Name:   "فكاهي وساخر",
		Prompt: "اكتب بأسلوب فكاهي وساخر. استخدم المفارقات اللفظية والمواقف المضحكة. يمكن أن يكون السرد ناقداً بطريقة غير مباشرة. اللغة يجب أن تكون حيوية ومليئة بالذكاء اللفظي.",
	},
}
