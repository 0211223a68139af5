package parser

import (
	"fmt"
	"strings"

	"sdsposter/internal/domain"
)

// UserPrompt is sent alongside the document.
const UserPrompt = "このSDSを解析して要約してください。GHSコードを正確に特定してください。"

// BuildSystemInstruction returns the extraction instruction. The pictogram
// list is generated from the canonical table so the two never drift apart.
func BuildSystemInstruction() string {
	var b strings.Builder
	b.WriteString("あなたは化学物質管理の専門家です。SDS（安全データシート）を解析し、工場に掲示する要約を作成してください。\n\n")
	b.WriteString("## GHSピクトグラムの特定（最重要）:\n")
	b.WriteString("文書の「2. 危険有害性の要約」に記載されたシンボル画像と記述を確認し、該当するコードをすべて特定してください。\n")
	for _, p := range domain.Pictograms() {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", p.Code, p.LabelJA, p.Label)
	}
	b.WriteString("ghsPictograms には上記のコード（例: GHS-02）のみを出力してください。\n\n")
	b.WriteString("## 出力ルール:\n")
	b.WriteString("1. すべての項目を日本語(ja)、英語(en)、ベトナム語(vi)で作成してください。\n")
	b.WriteString("2. 作業員が緊急時に何をすべきかすぐに分かる、短い行動指示の文にしてください。\n")
	b.WriteString("3. 電話番号などの個人情報は含めないでください。\n")
	b.WriteString("4. 文書に記載がない項目は空文字列にしてください。推測で補わないでください。\n")
	return b.String()
}
