package ai

import (
	"fmt"
	"strings"

	"github.com/shylockwolf/ainote/internal/models"
)

// Prompt templates. The wording is the product's original Chinese prompt
// set; the category list in the analysis prompts must stay in sync with
// models.Categories.

// analysisPromptJSON instructs extraction of topic/people/category/summary
// and spells out the required JSON shape. Used by backends that enforce the
// shape by textual instruction.
func analysisPromptJSON(content string) string {
	return fmt.Sprintf(`分析以下灵感笔记内容，提取主题、涉及人员和类别。
请以 JSON 格式返回，格式如下：
{
  "topic": "主要讨论的话题",
  "people": ["人员1", "人员2"],
  "category": "所属类别（只能是：%s之一）",
  "summary": "简短摘要"
}

内容: "%s"`, categoryList("、"), content)
}

// analysisPromptBrief omits the shape description. Used by backends that
// declare a response schema to the model instead.
func analysisPromptBrief(content string) string {
	return fmt.Sprintf(`分析以下灵感笔记内容，提取主题、涉及人员和类别。
内容: "%s"`, content)
}

// documentPrompt maps a document action to its deterministic prompt.
func documentPrompt(content string, action models.DocumentAction) (string, error) {
	switch action {
	case models.ActionTranslate:
		return `将以下内容翻译成英文。保持专业语气，如果是技术文档则使用准确的技术术语。如果是中文，翻译成英文；如果是英文，翻译成中文。
内容：
` + content, nil
	case models.ActionProofread:
		return `对以下内容进行智能校对和优化：
1. 逻辑清晰化
2. 用词准确性检查
3. 修正语法错误
4. 保持原意不变，但表达更专业。
内容：
` + content, nil
	case models.ActionFormat:
		return `对以下内容进行格式规范化处理：
1. 中英文之间添加半角空格
2. 中文和数字之间添加半角空格
3. 英文和数字之间添加半角空格
4. 统一中英文引号（根据主要语言统一）
5. 整理段落和列表格式。
内容：
` + content, nil
	case models.ActionMindMap:
		return `将以下文档内容转换为思维导图的 JSON 结构。
要求：
1. 根节点是文档标题或核心主题
2. 分支代表主要章节或观点
3. 叶子节点代表细节
4. 结构清晰，层级分明。
返回格式：{"name": "root", "children": [{"name": "child1", "children": [...]}]}
内容：
` + content, nil
	default:
		return "", fmt.Errorf("unknown document action: %s", action)
	}
}

// chatPrompt embeds the prior-notes context, the current document, and the
// user instruction. The model replies with the full replacement text.
func chatPrompt(content, noteContext, message string) string {
	return fmt.Sprintf(`你是一个智能写作助手。
上下文背景（之前的笔记记录）：
%s

当前正在编辑的文档：
%s

用户指令：%s

请根据上下文和当前文档内容，直接返回修改后的完整文档内容或回答用户的问题。如果是修改文档，请返回完整的 Markdown 文本。`, noteContext, content, message)
}

func categoryList(sep string) string {
	categories := models.Categories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return strings.Join(names, sep)
}
