package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/mialiang/bridalcat/internal/constant"
	"github.com/mialiang/bridalcat/internal/model"
)

// Renderer turns canonical entries into self-contained HTML fragments.
// Each fragment carries its own style block, so fragments can be
// concatenated into one export document without a shared stylesheet.
// The style selectors are class based rather than scoped per fragment;
// that matches the original pages and is harmless because every
// fragment uses the same styling.
type Renderer struct {
	tpl *template.Template
}

func New() *Renderer {
	return &Renderer{
		tpl: template.Must(template.New("page").Funcs(pageFuncs()).Parse(pageTemplate)),
	}
}

func pageFuncs() template.FuncMap {
	return template.FuncMap{
		// paragraph escapes user text and keeps its line structure.
		"paragraph": func(s string) template.HTML {
			if s == "" {
				return ""
			}
			escaped := template.HTMLEscapeString(s)
			return template.HTML(strings.ReplaceAll(escaped, "\n", "<br />"))
		},
	}
}

type blockView struct {
	Title   string
	Content string
}

type pageView struct {
	Slug        string
	Name        string
	Price       string
	Description string
	Blocks      []blockView
	Empty       bool
	Front       template.URL
	Back        template.URL
	Detail1     template.URL
	Detail2     template.URL
}

// Fragment renders one entry. The resolver is invoked exactly once per
// image slot; rendering itself does no I/O.
func (r *Renderer) Fragment(entry *model.Entry, resolve ImageResolver) (string, error) {
	view := pageView{
		Slug:        entry.Slug,
		Name:        entry.Name,
		Price:       entry.Price,
		Description: entry.Description,
		Front:       template.URL(resolve(entry.Images[constant.SlotFront])),
		Back:        template.URL(resolve(entry.Images[constant.SlotBack])),
		Detail1:     template.URL(resolve(entry.Images[constant.SlotDetail1])),
		Detail2:     template.URL(resolve(entry.Images[constant.SlotDetail2])),
	}
	for _, block := range entry.Blocks {
		if block.Content == "" {
			continue
		}
		view.Blocks = append(view.Blocks, blockView{Title: block.Title, Content: block.Content})
	}
	view.Empty = view.Description == "" && len(view.Blocks) == 0

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render entry %s: %w", entry.Slug, err)
	}
	return buf.String(), nil
}

// Document renders every entry and wraps the fragments in a minimal
// page shell, producing the export artifact.
func (r *Renderer) Document(entries []*model.Entry, resolve ImageResolver) (string, error) {
	var pages strings.Builder
	for _, entry := range entries {
		fragment, err := r.Fragment(entry, resolve)
		if err != nil {
			return "", err
		}
		pages.WriteString(fragment)
	}
	return documentHead + pages.String() + documentTail, nil
}

const documentHead = `<!DOCTYPE html><html lang='zh-CN'><head><meta charset='UTF-8'><title>婚纱目录预览</title></head><body style="font-family:'PingFang SC','Microsoft Yahei',sans-serif;background:#f4efe7;padding:20px;">`

const documentTail = `</body></html>`

const pageTemplate = `<style>
:root {
    --ink:#35241a;
    --accent:#c19273;
    --veil:#faf3eb;
}
.page {
    background:linear-gradient(135deg,#f9f3ec 0%,#f2e5d8 100%);
    padding:1.8rem;
    border-radius:26px;
    display:grid;
    grid-template-columns:minmax(0,38%) minmax(0,62%);
    gap:1.2rem;
    min-height:260px;
    font-family:'Cormorant Garamond','Palatino Linotype','Times New Roman',serif;
    color:var(--ink);
    box-shadow:0 25px 55px rgba(54,34,17,0.12);
}
.info{display:flex;flex-direction:column;gap:0.9rem;min-height:100%;}
.info h2{margin:0;font-size:2.2rem;letter-spacing:0.08em;font-weight:500;}
.info p{margin:0 0 0.4rem;font-size:1.05rem;line-height:1.7;}
.tag{text-transform:uppercase;letter-spacing:0.5em;font-size:0.75rem;color:rgba(0,0,0,0.45);font-family:'Optima','Cormorant Garamond','Times New Roman',serif;}
.photos{display:grid;grid-template-columns:repeat(2,minmax(0,1fr));grid-template-rows:minmax(0,1fr) minmax(0,0.6fr);gap:0.7rem;}
figure{margin:0;border-radius:18px;overflow:hidden;position:relative;background:#dcd6cf;box-shadow:0 15px 40px rgba(0,0,0,0.12);}
figure img{width:100%;height:100%;object-fit:cover;display:block;}
figure figcaption{position:absolute;bottom:8px;left:14px;font-size:0.7rem;letter-spacing:0.2em;color:rgba(255,255,255,0.7);text-shadow:0 2px 6px rgba(0,0,0,0.45);}
.price{margin-top:auto;align-self:flex-end;font-size:1.5rem;color:var(--accent);letter-spacing:0.3em;text-transform:uppercase;font-weight:500;}
.desc-grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(160px,1fr));gap:0.8rem;}
.desc-grid article{background:rgba(255,255,255,0.65);padding:0.9rem;border-radius:18px;box-shadow:0 12px 35px rgba(0,0,0,0.08);}
.desc-grid article h3{margin:0 0 0.5rem;font-size:0.9rem;letter-spacing:0.15em;color:var(--accent);text-transform:uppercase;}
.desc-grid article p{margin:0;font-size:0.95rem;line-height:1.6;}
</style>
<section class='page'>
    <div class='info'>
        <div>
            <div class='tag'>{{.Slug}}</div>
            <h2>{{.Name}}</h2>
            {{if .Description}}<p>{{paragraph .Description}}</p>{{end}}
            {{- if .Blocks}}<div class='desc-grid'>{{range .Blocks}}<article><h3>{{if .Title}}{{.Title}}{{else}}亮点{{end}}</h3><p>{{paragraph .Content}}</p></article>{{end}}</div>{{end}}
            {{- if .Empty}}<p>暂无介绍。</p>{{end}}
        </div>
        <div class='price'>价格 ¥{{.Price}}</div>
    </div>
    <div class='photos'>
        <figure><img src="{{.Front}}" alt="{{.Name}} 主图正面" /></figure>
        <figure><img src="{{.Back}}" alt="{{.Name}} 主图背面" /></figure>
        <figure><img src="{{.Detail1}}" alt="{{.Name}} 细节一" /><figcaption>DETAIL</figcaption></figure>
        <figure><img src="{{.Detail2}}" alt="{{.Name}} 细节二" /><figcaption>DETAIL</figcaption></figure>
    </div>
</section>
`
