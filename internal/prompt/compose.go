// Package prompt builds the instruction text sent to the model. Everything
// here is a pure function over already-validated inputs.
package prompt

import (
	"strings"

	"hikaya/internal/styles"
)

const storyFraming = `أنت كاتب قصص قصيرة محترف باللغة العربية.
انظر بتمعن إلى الصورة المرفقة واكتب قصة قصيرة مكتملة مستوحاة منها، لها بداية ووسط ونهاية.
لا تصف الصورة وصفاً حرفياً، بل استخدمها كنقطة انطلاق للخيال.
أجب بالقصة فقط دون أي مقدمات أو تعليقات خارج السرد.`

// referenceSample is a short span of modern standard Arabic prose appended to
// the default style so the model mimics its cadence.
const referenceSample = `في أول الليل، حين تهدأ المدينة ويصير للضوء معنى آخر، كان جدي يجلس قرب النافذة يروي لنا حكاياته.
كانت كلماته بسيطة، لكنها كانت تفتح أمامنا أبواباً لا تنتهي من الدهشة، فنرى في العتمة بحاراً وسفناً ومدناً بعيدة.
ومنذ ذلك الحين أدركت أن الحكاية ليست ما يُقال، بل ما يبقى فينا بعد أن يصمت الراوي.`

// ComposeStory combines the fixed role framing with the style's instruction
// body. The default style additionally carries the embedded reference sample.
func ComposeStory(style styles.Style) string {
	sb := &strings.Builder{}
	sb.WriteString(storyFraming)
	sb.WriteString("\n\nأسلوب الكتابة المطلوب:\n")
	sb.WriteString(style.Prompt)
	if style.ID == "general_modern_standard" {
		sb.WriteString("\n\nنموذج مرجعي للأسلوب، حاكِ إيقاعه دون نسخه:\n")
		sb.WriteString(referenceSample)
	}
	return sb.String()
}

const reportPrompt = `You are an expert Radiologist Assistant AI.
Your task is to analyze the provided medical image and generate a structured preliminary report.

Strictly follow this reporting format:

**1. Modality:** (e.g., Chest X-ray, MRI, CT Scan)
**2. Orientation/View:** (e.g., PA View, Lateral)
**3. Key Findings:** - List objective observations.
   - Mention structures (Lungs, Heart, Bones, etc.).
   - Note any anomalies (opacity, fractures, effusion).
**4. Impression:** A concise summary of the findings.

**DISCLAIMER:** - If the image is NOT a medical image, reply: "Invalid input: This does not appear to be a medical image."
- Always end the report with: "DISCLAIMER: This is an AI-generated prototype for research purposes only. Not for clinical diagnosis."`

// ComposeReport returns the fixed clinical instruction for report mode.
func ComposeReport() string {
	return reportPrompt
}
