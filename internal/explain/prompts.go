package explain

import (
	"fmt"

	"github.com/jgirmay/mathlab/pkg/models"
)

const multiplyPrompt = `Explain the multiplication problem %d × %d to a 6-year-old child.
Use a creative, short story involving animals, fruits, or toys to visualize it.
Keep the language very simple, encouraging, and fun. Use emojis.
Keep it under 100 words.`

const dividePrompt = `Explain the division problem %d ÷ %d to a 6-year-old child.
Describe it as sharing items equally among friends or groups.
Use a creative, short story.
Keep the language very simple, encouraging, and fun. Use emojis.
Keep it under 100 words.`

// BuildPrompt templates the story request. Every operation other than
// multiply gets the sharing prompt.
func BuildPrompt(a, b int, op models.Operation) string {
	if op == models.OperationMultiply {
		return fmt.Sprintf(multiplyPrompt, a, b)
	}
	return fmt.Sprintf(dividePrompt, a, b)
}
