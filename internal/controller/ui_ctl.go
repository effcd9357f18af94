package controller

import (
	"github.com/gin-gonic/gin"

	"laptop_catalog/internal/api/dto"
	"laptop_catalog/internal/shell"
)

// UIController 界面开关
type UIController struct {
	state *shell.UIState
}

func NewUIController(state *shell.UIState) *UIController {
	return &UIController{state: state}
}

// GetFlags 当前所有开关
// @Summary 获取界面开关
// @Tags UI
// @Success 200 {object} dto.UIFlagsResp
// @Router /api/ui/flags [get]
func (ctrl *UIController) GetFlags(c *gin.Context) {
	ok(c, dto.UIFlagsResp{Flags: ctrl.state.Snapshot()})
}

// ApplyFlag 打开/关闭/切换一个开关
// @Summary 修改界面开关
// @Tags UI
// @Param name path string true "开关名" Enums(menu, cart, search, filterPanel, loginModal)
// @Param action path string true "操作" Enums(open, close, toggle)
// @Success 200 {object} dto.UIFlagsResp
// @Router /api/ui/flags/{name}/{action} [post]
func (ctrl *UIController) ApplyFlag(c *gin.Context) {
	flag := shell.Flag(c.Param("name"))
	if _, err := ctrl.state.Apply(flag, shell.Action(c.Param("action"))); err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, dto.UIFlagsResp{Flags: ctrl.state.Snapshot()})
}
