package calculator

// LeverageFromLiquidationPrice 由目标强平价反推所需杠杆倍数
//
// 对强平价公式求逆。maintenanceRate 传入非正值时使用默认的0.5%。
// 注意空仓分支中维持保证金率取负号，与正向强平价公式并非严格互逆，
// 反推出的空仓杠杆略高于正向值。
// 分母为零或为负说明目标价在该方向上不可达(如多仓目标价不低于开仓价)，
// 数学上对应无穷大或负杠杆，统一钳制为1作为显式的退化输入哨兵，
// 结果同样不会低于1
func LeverageFromLiquidationPrice(openPrice, targetLiquidationPrice float64, side PositionSide, maintenanceRate float64) float64 {
	if maintenanceRate <= 0 {
		maintenanceRate = DefaultMaintenanceRate
	}

	ratio := targetLiquidationPrice / openPrice
	var denom float64
	if side == Short {
		denom = ratio - 1 - maintenanceRate
	} else {
		denom = 1 - ratio + maintenanceRate
	}
	if denom <= 0 {
		return 1
	}

	leverage := 1 / denom
	if leverage < 1 {
		return 1
	}
	return leverage
}

// LeverageFromRiskPercentage 由可承受的反向波动幅度(%)反推杠杆倍数
//
// 风险幅度按构造与持仓方向无关，side 当前不参与计算，
// 仅为与 LeverageFromLiquidationPrice 保持签名对称而保留。
// maintenanceRate 传入非正值时使用默认的0.5%，结果不低于1
func LeverageFromRiskPercentage(riskPercentage float64, side PositionSide, maintenanceRate float64) float64 {
	if maintenanceRate <= 0 {
		maintenanceRate = DefaultMaintenanceRate
	}

	denom := riskPercentage/100 + maintenanceRate
	if denom <= 0 {
		return 1
	}

	leverage := 1 / denom
	if leverage < 1 {
		return 1
	}
	return leverage
}
