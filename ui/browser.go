package ui

import (
	"bytes"
	"image/color"
	"log"

	"github.com/automoto/gridduel/network"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// RelayBrowserUI lists the relays known to the master server and lets the
// player pick one, or type an address, and a room to wait in.
type RelayBrowserUI struct {
	UI *ebitenui.UI

	OnConnect func(address, room string)
	OnGoBack  func()
	OnRefresh func()

	defaultAddress string
	defaultRoom    string

	relayList    *widget.Container
	addressInput *widget.TextInput
	roomInput    *widget.TextInput
	statusLabel  *widget.Label
	browseLabel  *widget.Label
	connectBtn   *widget.Button
	refreshBtn   *widget.Button
	relayButtons []*widget.Button
	connecting   bool

	titleFace  text.Face
	normalFace text.Face
	smallFace  text.Face
}

func NewRelayBrowserUI(defaultAddress, defaultRoom string, onConnect func(address, room string), onGoBack, onRefresh func()) *RelayBrowserUI {
	ui := &RelayBrowserUI{
		OnConnect:      onConnect,
		OnGoBack:       onGoBack,
		OnRefresh:      onRefresh,
		defaultAddress: defaultAddress,
		defaultRoom:    defaultRoom,
	}
	ui.loadFonts()
	ui.buildUI()
	return ui
}

func (ui *RelayBrowserUI) loadFonts() {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to load UI font: %v", err)
	}

	ui.titleFace = &text.GoTextFace{Source: fontSource, Size: 18}
	ui.normalFace = &text.GoTextFace{Source: fontSource, Size: 12}
	ui.smallFace = &text.GoTextFace{Source: fontSource, Size: 10}
}

func (ui *RelayBrowserUI) buildUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{20, 20, 30, 255})),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	contentContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(12)),
			widget.RowLayoutOpts.Spacing(8),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	contentContainer.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("PLAY ONLINE", &ui.titleFace, &widget.LabelColor{
			Idle: color.RGBA{255, 255, 255, 255},
		}),
	))

	contentContainer.AddChild(ui.buildBrowsePanel())
	contentContainer.AddChild(ui.buildConnectPanel())

	ui.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &ui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{255, 200, 100, 255},
		}),
	)
	contentContainer.AddChild(ui.statusLabel)
	contentContainer.AddChild(ui.buildButtons())

	rootContainer.AddChild(contentContainer)
	ui.UI = &ebitenui.UI{Container: rootContainer}
}

func (ui *RelayBrowserUI) panel() *widget.Container {
	padding := widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}
	return widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{30, 30, 45, 255})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&padding),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)
}

func (ui *RelayBrowserUI) buildBrowsePanel() *widget.Container {
	panel := ui.panel()

	header := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)
	ui.browseLabel = widget.NewLabel(
		widget.LabelOpts.Text("Relays", &ui.normalFace, &widget.LabelColor{
			Idle: color.RGBA{200, 200, 200, 255},
		}),
	)
	header.AddChild(ui.browseLabel)

	ui.refreshBtn = widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(70, 20)),
		widget.ButtonOpts.Image(ui.buttonImage()),
		widget.ButtonOpts.Text("Refresh", &ui.smallFace, ui.buttonTextColor()),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if ui.OnRefresh != nil {
				ui.OnRefresh()
			}
		}),
	)
	header.AddChild(ui.refreshBtn)
	panel.AddChild(header)

	ui.relayList = widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(3),
		)),
	)
	panel.AddChild(ui.relayList)
	return panel
}

func (ui *RelayBrowserUI) textInput(placeholder string, width int) *widget.TextInput {
	return widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(width, 22)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(color.RGBA{50, 50, 70, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 50, 255}),
		}),
		widget.TextInputOpts.Face(&ui.normalFace),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          color.RGBA{255, 255, 255, 255},
			Disabled:      color.RGBA{128, 128, 128, 255},
			Caret:         color.RGBA{255, 255, 255, 255},
			DisabledCaret: color.RGBA{128, 128, 128, 255},
		}),
		widget.TextInputOpts.Placeholder(placeholder),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(4)),
	)
}

func (ui *RelayBrowserUI) labelledRow(label string, input *widget.TextInput) *widget.Container {
	row := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)
	row.AddChild(widget.NewLabel(
		widget.LabelOpts.Text(label, &ui.normalFace, &widget.LabelColor{
			Idle: color.RGBA{200, 200, 200, 255},
		}),
	))
	row.AddChild(input)
	return row
}

func (ui *RelayBrowserUI) buildConnectPanel() *widget.Container {
	panel := ui.panel()

	ui.addressInput = ui.textInput(ui.defaultAddress, 180)
	panel.AddChild(ui.labelledRow("Address:", ui.addressInput))

	ui.roomInput = ui.textInput(ui.defaultRoom, 180)
	panel.AddChild(ui.labelledRow("Room:    ", ui.roomInput))

	ui.connectBtn = widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(120, 26)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     image.NewNineSliceColor(color.RGBA{40, 100, 40, 255}),
			Hover:    image.NewNineSliceColor(color.RGBA{60, 140, 60, 255}),
			Pressed:  image.NewNineSliceColor(color.RGBA{30, 80, 30, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 50, 40, 255}),
		}),
		widget.ButtonOpts.Text("Find Match", &ui.normalFace, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{200, 255, 200, 255},
			Pressed:  color.RGBA{150, 200, 150, 255},
			Disabled: color.RGBA{100, 100, 100, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			ui.connect(ui.getAddress())
		}),
	)
	panel.AddChild(ui.connectBtn)
	return panel
}

func (ui *RelayBrowserUI) buildButtons() *widget.Container {
	container := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(10),
		)),
	)

	backButton := widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(80, 28)),
		widget.ButtonOpts.Image(ui.buttonImage()),
		widget.ButtonOpts.Text("Back", &ui.normalFace, ui.buttonTextColor()),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if ui.OnGoBack != nil {
				ui.OnGoBack()
			}
		}),
	)
	container.AddChild(backButton)
	return container
}

func (ui *RelayBrowserUI) buttonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(color.RGBA{60, 60, 80, 255}),
		Hover:    image.NewNineSliceColor(color.RGBA{80, 80, 100, 255}),
		Pressed:  image.NewNineSliceColor(color.RGBA{40, 40, 60, 255}),
		Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 40, 255}),
	}
}

func (ui *RelayBrowserUI) buttonTextColor() *widget.ButtonTextColor {
	return &widget.ButtonTextColor{
		Idle:     color.RGBA{255, 255, 255, 255},
		Hover:    color.RGBA{255, 220, 180, 255},
		Pressed:  color.RGBA{200, 170, 140, 255},
		Disabled: color.RGBA{100, 100, 100, 255},
	}
}

func (ui *RelayBrowserUI) connect(address string) {
	if ui.OnConnect == nil || ui.connecting {
		return
	}
	ui.OnConnect(address, ui.getRoom())
}

func (ui *RelayBrowserUI) getAddress() string {
	if addr := ui.addressInput.GetText(); addr != "" {
		return addr
	}
	return ui.defaultAddress
}

func (ui *RelayBrowserUI) getRoom() string {
	if room := ui.roomInput.GetText(); room != "" {
		return room
	}
	return ui.defaultRoom
}

// SetRelayList replaces the listed relays. Clicking one joins the room
// typed below on that relay.
func (ui *RelayBrowserUI) SetRelayList(relays []network.RelayEntry) {
	ui.relayList.RemoveChildren()
	ui.relayButtons = ui.relayButtons[:0]

	if len(relays) == 0 {
		ui.relayList.AddChild(widget.NewLabel(
			widget.LabelOpts.Text("no relays listed", &ui.smallFace, &widget.LabelColor{
				Idle: color.RGBA{140, 140, 140, 255},
			}),
		))
		return
	}

	for _, r := range relays {
		address := r.Address
		btn := widget.NewButton(
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(260, 20)),
			widget.ButtonOpts.Image(ui.buttonImage()),
			widget.ButtonOpts.Text(r.Label(), &ui.smallFace, ui.buttonTextColor()),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				ui.connect(address)
			}),
		)
		btn.GetWidget().Disabled = ui.connecting || r.Players >= r.MaxPlayers && r.MaxPlayers > 0
		ui.relayButtons = append(ui.relayButtons, btn)
		ui.relayList.AddChild(btn)
	}
}

func (ui *RelayBrowserUI) SetBrowseStatus(msg string) {
	if msg == "" {
		msg = "Relays"
	}
	ui.browseLabel.Label = msg
}

func (ui *RelayBrowserUI) SetRefreshing(refreshing bool) {
	ui.refreshBtn.GetWidget().Disabled = refreshing
}

func (ui *RelayBrowserUI) SetStatus(msg string) {
	if ui.statusLabel != nil {
		ui.statusLabel.Label = msg
	}
}

// SetConnecting disables every way of starting another connection.
func (ui *RelayBrowserUI) SetConnecting(connecting bool) {
	ui.connecting = connecting
	ui.connectBtn.GetWidget().Disabled = connecting
	for _, btn := range ui.relayButtons {
		btn.GetWidget().Disabled = connecting
	}
}

func (ui *RelayBrowserUI) Update() {
	ui.UI.Update()
}
