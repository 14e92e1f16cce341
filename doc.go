// Package seep programs I2C serial EEPROMs (24Cxx family) through a
// USB-attached bus bridge.
//
// # References:
//
// FTDI (https://ftdichip.com/document/application-notes/)
//   - [FTDI-AN_113]: Interfacing FT2232H Hi-Speed Devices to I2C Bus (https://ftdichip.com/wp-content/uploads/2020/08/AN_113_FTDI_Hi_Speed_USB_To_I2C_Example.pdf)
//   - [FTDI-AN_135]: FTDI MPSSE Basics (https://ftdichip.com/wp-content/uploads/2020/08/AN_135_MPSSE_Basics.pdf)
//   - [FTDI-DS_FT232H]: FT232H Single Channel Hi-Speed USB to Multipurpose UART/FIFO IC Data Sheet (https://ftdichip.com/wp-content/uploads/2024/09/DS_FT232H.pdf)
//
// I2C
//   - [UM10204]: I2C-bus specification and user manual, NXP (https://www.nxp.com/docs/en/user-guide/UM10204.pdf)
//
// Serial EEPROM
//   - [AT24C02D]: Atmel AT24C01D/02D 1-Kbit/2-Kbit I2C-Compatible EEPROM datasheet (https://ww1.microchip.com/downloads/en/DeviceDoc/Atmel-8871F-SEEPROM-AT24C01D-02D-Datasheet.pdf)
//   - [24LC256]: Microchip 24AA256/24LC256/24FC256 256-Kbit I2C Serial EEPROM (https://ww1.microchip.com/downloads/en/DeviceDoc/20001203W.pdf)
//   - [AT24CM01]: Atmel AT24CM01 1-Mbit I2C-Compatible EEPROM datasheet (https://ww1.microchip.com/downloads/en/DeviceDoc/Atmel-8812-SEEPROM-AT24CM01-Datasheet.pdf)
package seep
