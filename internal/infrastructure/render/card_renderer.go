package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand/v2"
	"time"

	"bert_flex/internal/domain/entity"
	"bert_flex/internal/pkg/metrics"
	"bert_flex/internal/pkg/utils"

	"github.com/cespare/xxhash/v2"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	xdraw "golang.org/x/image/draw"
)

// ErrNoHoldings is returned when asked to render a wallet without a positive balance.
var ErrNoHoldings = errors.New("snapshot has no token holdings to render")

// supersample is the factor the card is drawn at before downscaling.
const supersample = 2

var (
	colorCyan      = color.NRGBA{R: 0, G: 240, B: 255, A: 255}
	colorMagenta   = color.NRGBA{R: 255, G: 0, B: 229, A: 255}
	colorNeonGreen = color.NRGBA{R: 0, G: 255, B: 130, A: 255}
	colorRed       = color.NRGBA{R: 255, G: 60, B: 80, A: 255}
	colorWhite     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colorDim       = color.NRGBA{R: 100, G: 100, B: 130, A: 255}
	colorLabel     = color.NRGBA{R: 160, G: 160, B: 190, A: 255}
	colorBG        = color.NRGBA{R: 8, G: 8, B: 18, A: 255}
	colorGrid      = color.NRGBA{R: 20, G: 20, B: 40, A: 255}
	colorGlassFill = color.NRGBA{R: 15, G: 15, B: 30, A: 220}
)

// Options configures a CardRenderer.
type Options struct {
	Width      int    // output width in pixels
	Height     int    // output height in pixels
	MascotPath string // optional PNG drawn on the right side
}

// CardRenderer draws flex cards. It is safe for concurrent use.
type CardRenderer struct {
	token  entity.TokenInfo
	width  int
	height int
	fonts  fontSet
	mascot *image.NRGBA
	logger *zap.Logger
}

// NewCardRenderer parses the embedded fonts and prepares the mascot. A missing or
// unreadable mascot is logged and skipped.
func NewCardRenderer(token entity.TokenInfo, opts Options, logger *zap.Logger) (*CardRenderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid card size %dx%d", opts.Width, opts.Height)
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	r := &CardRenderer{
		token:  token,
		width:  opts.Width,
		height: opts.Height,
		fonts:  fonts,
		logger: logger.Named("CardRenderer"),
	}

	if opts.MascotPath != "" {
		src, err := utils.LoadImage(opts.MascotPath)
		if err != nil {
			r.logger.Warn("Mascot image unavailable, cards will be drawn without it",
				zap.String("path", opts.MascotPath), zap.Error(err))
		} else {
			r.mascot = prepareMascot(src, r.width*supersample, r.height*supersample)
		}
	}
	return r, nil
}

// Render implements port.CardRenderer.
func (r *CardRenderer) Render(snapshot *entity.WalletSnapshot) (*entity.FlexCard, error) {
	if !snapshot.HasHoldings() {
		return nil, ErrNoHoldings
	}
	started := time.Now()

	w, h := r.width*supersample, r.height*supersample
	dc := gg.NewContext(w, h)
	canvas, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected canvas type %T", dc.Image())
	}
	faces := newFaceCache(r.fonts)
	defer faces.close()

	p := &painter{dc: dc, canvas: canvas, faces: faces, w: w, h: h}
	p.background(snapshot.Address)
	if r.mascot != nil {
		p.mascot(r.mascot)
	}
	p.gradientBars()
	r.drawContent(p, snapshot)
	p.scanlines()

	out := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode card png: %w", err)
	}

	metrics.CardsRendered.Inc()
	metrics.RenderDuration.Observe(time.Since(started).Seconds())
	r.logger.Debug("Rendered flex card",
		zap.String("requestId", snapshot.RequestID),
		zap.Int("bytes", buf.Len()),
		zap.Duration("took", time.Since(started)))

	return &entity.FlexCard{
		Image:   buf.Bytes(),
		Width:   r.width,
		Height:  r.height,
		Caption: r.Caption(snapshot),
	}, nil
}

// Caption returns the plain-text caption sent with the card.
func (r *CardRenderer) Caption(s *entity.WalletSnapshot) string {
	return fmt.Sprintf("%s FLEX by %s\n%s %s (≈ %s)\nHolding for: %s",
		r.token.Ticker, s.ShortAddress, s.BalanceDisplay, r.token.Symbol, s.USDValueDisplay, s.HoldDuration)
}

type statCard struct {
	label  string
	value  string
	sub    string
	accent color.NRGBA
}

func (r *CardRenderer) drawContent(p *painter, s *entity.WalletSnapshot) {
	const px = 60.0
	textZoneW := float64(int(float64(p.w) * 0.58))
	y := 50.0

	// Header
	p.neonText(r.token.Ticker, px, y, p.faces.get(styleBold, 56), colorCyan, 3)

	badgeFace := p.faces.get(styleMedium, 24)
	const badgeText = "FLEX CARD"
	badgeW := p.textWidth(badgeText, badgeFace)
	badgeX := textZoneW - badgeW - 20
	p.dc.DrawRoundedRectangle(badgeX-15, y+8, badgeW+30, 40, 8)
	p.dc.SetColor(withAlpha(colorMagenta, 30))
	p.dc.FillPreserve()
	p.dc.SetColor(withAlpha(colorMagenta, 200))
	p.dc.SetLineWidth(2)
	p.dc.Stroke()
	p.text(badgeText, badgeX, y+12, badgeFace, colorMagenta)
	y += 70

	short := s.ShortAddress
	if short == "" {
		short = "????...????"
	}
	p.text(short, px, y, p.faces.get(styleMono, 26), colorDim)
	y += 50

	p.separator(px, textZoneW, y)
	y += 25

	// Balance
	p.text("TOKEN BALANCE", px, y, p.faces.get(styleMedium, 22), colorLabel)
	y += 35
	p.neonText(s.BalanceDisplay+" "+r.token.Symbol, px, y, p.faces.get(styleBold, 72), colorWhite, 2)
	y += 95

	usdFace := p.faces.get(styleBold, 38)
	usdText := "~ " + s.USDValueDisplay
	p.text(usdText, px, y, usdFace, colorNeonGreen)
	if change := s.PriceChange24hPct(); change != nil {
		changeColor := colorNeonGreen
		if *change < 0 {
			changeColor = colorRed
		}
		cx := px + p.textWidth(usdText, usdFace) + 25
		p.text(utils.FormatChange24h(*change), cx, y+10, p.faces.get(styleMedium, 26), changeColor)
	}
	y += 70

	p.separator(px, textZoneW, y)
	y += 25

	// Stat cards
	const cardGap, cardH = 25.0, 175.0
	cardW := math.Floor((textZoneW - px - cardGap) / 2)
	cards := []statCard{
		{label: "DIAMOND HANDS", value: s.HoldDuration, sub: utils.TenureLabel(s.HoldDuration), accent: colorCyan},
		{label: "MARKET CAP", value: utils.FormatMarketCap(s.MarketCapUSD()), sub: r.token.Ticker, accent: colorMagenta},
	}
	for i, card := range cards {
		cx := px + float64(i)*(cardW+cardGap)
		p.glassCard(cx, y, cardW, cardH, 14, card.accent)
		p.text(card.label, cx+22, y+16, p.faces.get(styleMedium, 18), colorLabel)

		valueSize := 36.0
		if len([]rune(card.value)) > 14 {
			valueSize = 28
		}
		p.neonText(card.value, cx+22, y+55, p.faces.get(styleBold, valueSize), card.accent, 1)
		if card.sub != "" {
			p.text(card.sub, cx+22, y+cardH-40, p.faces.get(styleRegular, 18), colorDim)
		}
	}

	// Footer
	footerY := float64(p.h - 55)
	footerFace := p.faces.get(styleRegular, 20)
	p.text(r.token.Website+"  |  /flex your bag", px, footerY, footerFace, colorDim)
	stamp := s.FetchedAt.UTC().Format("2006-01-02 15:04") + " UTC"
	p.text(stamp, float64(p.w)-px-p.textWidth(stamp, footerFace), footerY, footerFace, colorDim)
}

// painter wraps the supersampled canvas. Text coordinates are the top-left corner of
// the line box, not the baseline.
type painter struct {
	dc     *gg.Context
	canvas *image.RGBA
	faces  *faceCache
	w, h   int
}

func (p *painter) background(seedKey string) {
	p.dc.SetColor(colorBG)
	p.dc.Clear()

	p.dc.SetColor(colorGrid)
	for x := 0; x < p.w; x += 60 {
		p.dc.DrawRectangle(float64(x), 0, 1, float64(p.h))
	}
	for y := 0; y < p.h; y += 60 {
		p.dc.DrawRectangle(0, float64(y), float64(p.w), 1)
	}
	p.dc.Fill()

	p.radialGlow(0, 0, 350, 14, colorCyan)
	p.radialGlow(p.w, p.h, 250, 10, colorMagenta)

	seed := xxhash.Sum64String(seedKey)
	rng := rand.New(rand.NewPCG(seed, seed))
	palette := []color.NRGBA{colorCyan, colorMagenta, colorWhite}
	for i := 0; i < 35; i++ {
		x := float64(rng.IntN(p.w + 1))
		y := float64(rng.IntN(p.h + 1))
		size := float64(2 + rng.IntN(4))
		alpha := uint8(30 + rng.IntN(71))
		c := palette[rng.IntN(len(palette))]
		p.dc.DrawEllipse(x+size/2, y+size/2, size/2, size/2)
		p.dc.SetColor(withAlpha(c, alpha))
		p.dc.Fill()
	}
}

// radialGlow composites concentric rings stepping inward by 3px. The innermost ring
// covering a pixel sets its alpha, so the glow brightens toward its outer edge before
// cutting off at maxRadius.
func (p *painter) radialGlow(cx, cy, maxRadius int, maxAlpha float64, c color.NRGBA) {
	area := image.Rect(cx-maxRadius, cy-maxRadius, cx+maxRadius, cy+maxRadius).Intersect(p.canvas.Bounds())
	if area.Empty() {
		return
	}
	layer := image.NewNRGBA(area)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			d := math.Hypot(float64(x-cx)+0.5, float64(y-cy)+0.5)
			if d > float64(maxRadius) {
				continue
			}
			ring := maxRadius - 3*int((float64(maxRadius)-d)/3)
			a := uint8(maxAlpha * float64(ring) / float64(maxRadius))
			if a == 0 {
				continue
			}
			layer.SetNRGBA(x, y, withAlpha(c, a))
		}
	}
	xdraw.Draw(p.canvas, area, layer, area.Min, xdraw.Over)
}

func (p *painter) mascot(m *image.NRGBA) {
	mw, mh := m.Bounds().Dx(), m.Bounds().Dy()
	x := p.w - mw + int(float64(mw)*0.08)
	y := (p.h - mh) / 2
	dst := image.Rect(x, y, x+mw, y+mh)
	xdraw.Draw(p.canvas, dst, m, m.Bounds().Min, xdraw.Over)
}

func (p *painter) gradientBars() {
	for x := 0; x < p.w; x++ {
		ratio := float64(x) / float64(p.w)
		top := lerp(colorCyan, colorMagenta, ratio)
		bottom := lerp(colorMagenta, colorCyan, ratio)
		for y := 0; y <= 6; y++ {
			p.canvas.Set(x, y, top)
		}
		for y := p.h - 6; y < p.h; y++ {
			p.canvas.Set(x, y, bottom)
		}
	}
}

func (p *painter) scanlines() {
	p.dc.SetColor(color.NRGBA{A: 8})
	for y := 0; y < p.h; y += 4 {
		p.dc.DrawRectangle(0, float64(y), float64(p.w), 1)
	}
	p.dc.Fill()
}

func (p *painter) separator(x0, x1, y float64) {
	p.dc.SetColor(withAlpha(colorCyan, 50))
	p.dc.SetLineWidth(2)
	p.dc.DrawLine(x0, y, x1, y)
	p.dc.Stroke()
}

func (p *painter) glassCard(x, y, w, h, radius float64, accent color.NRGBA) {
	p.dc.DrawRoundedRectangle(x, y, w, h, radius)
	p.dc.SetColor(colorGlassFill)
	p.dc.FillPreserve()
	p.dc.SetColor(withAlpha(accent, 160))
	p.dc.SetLineWidth(3)
	p.dc.Stroke()

	p.dc.SetColor(withAlpha(accent, 80))
	p.dc.SetLineWidth(2)
	p.dc.DrawLine(x+radius, y+2, x+w-radius, y+2)
	p.dc.Stroke()
}

func (p *painter) text(s string, x, y float64, face font.Face, c color.NRGBA) {
	p.dc.SetFontFace(face)
	p.dc.SetColor(c)
	p.dc.DrawString(s, x, y+ascent(face))
}

// neonText draws s once per offset in a (2r+1)² square at low alpha, then solid on top.
func (p *painter) neonText(s string, x, y float64, face font.Face, c color.NRGBA, radius int) {
	glow := withAlpha(c, 35)
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			p.text(s, x+float64(dx), y+float64(dy), face, glow)
		}
	}
	p.text(s, x, y, face, c)
}

func (p *painter) textWidth(s string, face font.Face) float64 {
	p.dc.SetFontFace(face)
	w, _ := p.dc.MeasureString(s)
	return w
}

func ascent(face font.Face) float64 {
	return float64(face.Metrics().Ascent) / 64
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func lerp(from, to color.NRGBA, t float64) color.NRGBA {
	mix := func(a, b uint8) uint8 { return uint8(float64(a)*(1-t) + float64(b)*t) }
	return color.NRGBA{R: mix(from.R, to.R), G: mix(from.G, to.G), B: mix(from.B, to.B), A: 255}
}

// prepareMascot scales the mascot to 85% of the canvas height and fades its left 45%
// in from transparent.
func prepareMascot(src image.Image, canvasW, canvasH int) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	targetH := int(float64(canvasH) * 0.85)
	targetW := int(float64(targetH) * float64(b.Dx()) / float64(b.Dy()))
	if targetW <= 0 || targetH <= 0 || targetW > canvasW*4 {
		return nil
	}

	out := image.NewNRGBA(image.Rect(0, 0, targetW, targetH))
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, b, xdraw.Src, nil)

	fade := int(float64(targetW) * 0.45)
	for x := 0; x < fade; x++ {
		mask := 255 * x / fade
		for y := 0; y < targetH; y++ {
			i := out.PixOffset(x, y) + 3
			out.Pix[i] = uint8(int(out.Pix[i]) * mask / 255)
		}
	}
	return out
}
